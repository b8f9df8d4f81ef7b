package ffi

import (
	"fmt"

	"github.com/cro-chain/cro-client/internal/enclave"
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/internal/log"
	"github.com/cro-chain/cro-client/internal/rpcclient"
	"github.com/cro-chain/cro-client/internal/storage"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Progress re-exports the cancellation callback type: return false to
// abort the in-flight call with a cancelled result.
type Progress = rpcclient.Progress

// rpcContext is a long-lived network session: one endpoint, one network,
// optional local storage rooted at the caller's storage directory, and
// an optional progress callback shared by every call made through it.
type rpcContext struct {
	client  *rpcclient.Client
	enclave *enclave.Client
	db      storage.DB
	network types.Network
}

// CreateJSONRPCContext opens a context against a node endpoint (http,
// https, ws, or wss URL). storageDir roots the context's local store;
// empty keeps state in memory. A non-empty passphrase seals stored
// values. progress may be nil.
func CreateJSONRPCContext(storageDir, endpoint string, network types.Network, passphrase []byte, progress Progress) (Handle, error) {
	var db storage.DB
	if storageDir == "" {
		db = storage.NewMemory()
	} else {
		badgerDB, err := storage.NewBadger(storageDir)
		if err != nil {
			return 0, err
		}
		db = badgerDB
	}
	if len(passphrase) > 0 {
		db = storage.NewSecure(db, passphrase)
	}

	ctx := &rpcContext{
		client:  rpcclient.NewWithProgress(endpoint, progress),
		enclave: enclave.NewWithProgress(endpoint, progress),
		db:      db,
		network: network,
	}
	log.FFI.Debug().
		Str("endpoint", endpoint).
		Str("network", fmt.Sprintf("0x%02x", byte(network))).
		Msg("rpc context created")
	return registry.Put(handle.KindRPC, ctx), nil
}

// RunJSONRPC sends an already-encoded JSON-RPC request through the
// context and writes the raw response into dst (at least
// RPCResponseBufSize bytes).
func RunJSONRPC(h Handle, request, dst []byte) (int, error) {
	ctx, err := getRPCContext(h)
	if err != nil {
		return 0, err
	}
	resp, err := ctx.client.CallRaw(request)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, resp, RPCResponseBufSize)
}

// JSONRPCCall is the one-shot form of RunJSONRPC for callers that do
// not hold a context.
func JSONRPCCall(endpoint string, request, dst []byte) (int, error) {
	resp, err := rpcclient.New(endpoint).CallRaw(request)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, resp, RPCResponseBufSize)
}

// GetStakedState fetches the staking account snapshot through the
// context. Callers read the nonce from it before every staking one-shot.
func GetStakedState(h Handle, stakingAddr string) (*rpcclient.StakedState, error) {
	ctx, err := getRPCContext(h)
	if err != nil {
		return nil, err
	}
	return ctx.client.GetStakedState(stakingAddr)
}

// EncryptTx hands a finalized transaction to the enclave collaborator
// and writes the encrypted payload into dst (at least
// FinalizedTxBufSize bytes).
func EncryptTx(h Handle, signedTx, dst []byte) (int, error) {
	ctx, err := getRPCContext(h)
	if err != nil {
		return 0, err
	}
	payload, err := ctx.enclave.Encrypt(signedTx)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// BroadcastTx submits a broadcast-ready payload through the context.
func BroadcastTx(h Handle, payload []byte) error {
	ctx, err := getRPCContext(h)
	if err != nil {
		return err
	}
	return ctx.client.Broadcast(payload)
}

// One-shot forms for callers that do not hold a context.

// GetStakedStateAt fetches the staking snapshot from an endpoint.
func GetStakedStateAt(endpoint, stakingAddr string) (*rpcclient.StakedState, error) {
	return rpcclient.New(endpoint).GetStakedState(stakingAddr)
}

// EncryptTxVia hands a finalized transaction to the enclave behind an
// endpoint and writes the encrypted payload into dst.
func EncryptTxVia(endpoint string, signedTx, dst []byte) (int, error) {
	payload, err := enclave.New(endpoint).Encrypt(signedTx)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// BroadcastTxTo submits a broadcast-ready payload to an endpoint.
func BroadcastTxTo(endpoint string, payload []byte) error {
	return rpcclient.New(endpoint).Broadcast(payload)
}

// StoreContextValue persists a named value in the context's local
// store (sealed when the context was created with a passphrase).
func StoreContextValue(h Handle, name string, value []byte) error {
	ctx, err := getRPCContext(h)
	if err != nil {
		return err
	}
	return ctx.db.Put([]byte(name), value)
}

// LoadContextValue writes a previously stored value into dst.
func LoadContextValue(h Handle, name string, dst []byte) (int, error) {
	ctx, err := getRPCContext(h)
	if err != nil {
		return 0, err
	}
	value, err := ctx.db.Get([]byte(name))
	if err != nil {
		return 0, err
	}
	return writePayload(dst, value, 0)
}

// DestroyJSONRPCContext closes the context's local store and
// invalidates the handle.
func DestroyJSONRPCContext(h Handle) error {
	obj, err := registry.Destroy(h, handle.KindRPC)
	if err != nil {
		return err
	}
	return obj.(*rpcContext).db.Close()
}
