// Package ffi is the foreign call boundary of the engine: one function
// per exported operation, opaque generation-checked handles instead of
// pointers, caller-owned output buffers, and stable numeric result
// codes (CodeOf). Everything underneath is plain Go; this package only
// adapts calling conventions.
package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/internal/hdwallet"
	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/tx"
)

// Handle re-exports the opaque identifier type foreign callers hold.
type Handle = handle.Handle

// registry is the process-global object table. All handles issued by
// this package resolve against it.
var registry = handle.NewTable()

// LiveHandles returns the number of currently registered objects,
// letting embedders assert they released everything.
func LiveHandles() int {
	return registry.Live()
}

// Typed lookups. Each converts a registry miss or kind mismatch into
// ErrInvalidHandle via the table.

func getAddress(h Handle) (*address.Address, error) {
	obj, err := registry.Get(h, handle.KindAddress)
	if err != nil {
		return nil, err
	}
	return obj.(*address.Address), nil
}

func getWallet(h Handle) (*hdwallet.Wallet, error) {
	obj, err := registry.Get(h, handle.KindWallet)
	if err != nil {
		return nil, err
	}
	return obj.(*hdwallet.Wallet), nil
}

func getTransferTx(h Handle) (*tx.Tx, error) {
	obj, err := registry.Get(h, handle.KindTx)
	if err != nil {
		return nil, err
	}
	return obj.(*tx.Tx), nil
}

func getDepositTx(h Handle) (*tx.DepositTx, error) {
	obj, err := registry.Get(h, handle.KindDepositTx)
	if err != nil {
		return nil, err
	}
	return obj.(*tx.DepositTx), nil
}

func getFee(h Handle) (*tx.LinearFee, error) {
	obj, err := registry.Get(h, handle.KindFee)
	if err != nil {
		return nil, err
	}
	return obj.(*tx.LinearFee), nil
}

func getRPCContext(h Handle) (*rpcContext, error) {
	obj, err := registry.Get(h, handle.KindRPC)
	if err != nil {
		return nil, err
	}
	return obj.(*rpcContext), nil
}
