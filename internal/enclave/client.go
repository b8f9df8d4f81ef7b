// Package enclave hands finished transactions to the trusted-execution
// collaborator that encrypts confidential payloads before broadcast.
// The engine does no cryptographic transformation here beyond framing:
// the enclave owns the encryption.
package enclave

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cro-chain/cro-client/internal/log"
	"github.com/cro-chain/cro-client/internal/rpcclient"
)

// ErrPayloadRejected is returned when the enclave understood the request
// and refused the transaction (malformed or policy-violating). Fatal:
// retrying the same payload cannot succeed.
var ErrPayloadRejected = errors.New("enclave rejected payload")

// Client submits signed plaintext transactions for confidential
// encryption. The call blocks for a network round-trip; the progress
// callback wired into the underlying RPC client is the cancellation
// mechanism.
type Client struct {
	rpc *rpcclient.Client
}

// New creates an enclave client for the node's websocket endpoint.
func New(endpoint string) *Client {
	return NewWithProgress(endpoint, nil)
}

// NewWithProgress creates an enclave client with a progress callback.
func NewWithProgress(endpoint string, progress rpcclient.Progress) *Client {
	return &Client{rpc: rpcclient.NewWithProgress(endpoint, progress)}
}

// encryptResult is the enclave's response envelope.
type encryptResult struct {
	Payload string `json:"payload"` // base64 encrypted tx
}

// Encrypt submits a finalized signed transaction and returns the
// encrypted, broadcast-ready payload. Transport failures are retryable
// and carry the endpoint; a server-side rejection maps to
// ErrPayloadRejected.
func (c *Client) Encrypt(signedTx []byte) ([]byte, error) {
	if len(signedTx) == 0 {
		return nil, fmt.Errorf("empty transaction payload")
	}

	params := map[string]string{
		"tx": base64.StdEncoding.EncodeToString(signedTx),
	}
	var result encryptResult
	if err := c.rpc.Call("enclave_encrypt_tx", params, &result); err != nil {
		var rpcErr *rpcclient.RPCError
		if errors.As(err, &rpcErr) {
			return nil, fmt.Errorf("%w: %s", ErrPayloadRejected, rpcErr.Message)
		}
		return nil, err
	}

	payload, err := base64.StdEncoding.DecodeString(result.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode encrypted payload: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty encrypted payload", ErrPayloadRejected)
	}
	log.Enclave.Debug().
		Int("plain_bytes", len(signedTx)).
		Int("encrypted_bytes", len(payload)).
		Msg("transaction encrypted")
	return payload, nil
}
