package rpcclient

import (
	"encoding/base64"
	"fmt"

	"github.com/cro-chain/cro-client/internal/log"
	"github.com/cro-chain/cro-client/pkg/types"
)

// StakedState is a read-only snapshot of a staking account. The nonce
// must be embedded verbatim in the next staking-state-changing
// transaction; it increments server-side on every accepted one, so
// callers re-fetch after each success.
type StakedState struct {
	Nonce        uint64     `json:"nonce"`
	Bonded       types.Coin `json:"bonded"`
	Unbonded     types.Coin `json:"unbonded"`
	UnbondedFrom uint64     `json:"unbonded_from"`
}

// GetStakedState fetches the staking account snapshot for a printed
// staking address ("0x...").
func (c *Client) GetStakedState(stakingAddr string) (*StakedState, error) {
	var state StakedState
	if err := c.Call("staking_state", []string{stakingAddr}, &state); err != nil {
		return nil, fmt.Errorf("staked state for %s: %w", stakingAddr, err)
	}
	log.RPC.Debug().
		Str("address", stakingAddr).
		Uint64("nonce", state.Nonce).
		Msg("fetched staked state")
	return &state, nil
}

// broadcastResult is the node's answer to a sync broadcast.
type broadcastResult struct {
	Code int    `json:"code"`
	Log  string `json:"log"`
	Hash string `json:"hash"`
}

// Broadcast submits a finished payload to the consensus layer and fails
// if the node reports a non-zero check code.
func (c *Client) Broadcast(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty broadcast payload")
	}

	var result broadcastResult
	encoded := base64.StdEncoding.EncodeToString(payload)
	if err := c.Call("broadcast_tx_sync", []string{encoded}, &result); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	if result.Code != 0 {
		return &RPCError{Code: result.Code, Message: result.Log}
	}
	log.RPC.Info().
		Str("hash", result.Hash).
		Int("bytes", len(payload)).
		Msg("broadcast accepted")
	return nil
}
