package ffi

import (
	"github.com/cro-chain/cro-client/pkg/tx"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Staking one-shots: each builds and signs in a single call, writing
// the broadcast-ready serialization into dst (at least
// FinalizedTxBufSize bytes). The nonce must be the account's current
// value (GetStakedState) and is embedded verbatim.

// BuildUnbondTx builds and signs a bonded -> unbonded transition.
func BuildUnbondTx(addrHandle Handle, network types.Network, nonce uint64, toStaking string, amount types.Coin, dst []byte) (int, error) {
	from, err := getAddress(addrHandle)
	if err != nil {
		return 0, err
	}
	payload, err := tx.BuildUnbond(network, nonce, from, toStaking, amount)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// BuildWithdrawTx builds and signs an unbonded -> UTXO withdrawal
// paying a bech32 transfer address, embedding the given hex viewkeys.
func BuildWithdrawTx(addrHandle Handle, network types.Network, nonce uint64, toTransfer string, viewkeys []string, dst []byte) (int, error) {
	from, err := getAddress(addrHandle)
	if err != nil {
		return 0, err
	}
	payload, err := tx.BuildWithdraw(network, nonce, from, toTransfer, viewkeys)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// BuildUnjailTx builds and signs an unjail request.
func BuildUnjailTx(addrHandle Handle, network types.Network, nonce uint64, toStaking string, dst []byte) (int, error) {
	from, err := getAddress(addrHandle)
	if err != nil {
		return 0, err
	}
	payload, err := tx.BuildUnjail(network, nonce, from, toStaking)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// BuildNodeJoinTx builds and signs a validator-join request. The
// validator pubkey is a base64 32-byte consensus key; the keypackage
// travels opaquely.
func BuildNodeJoinTx(addrHandle Handle, network types.Network, nonce uint64, toStaking, name, contact, validatorPubkeyB64 string, keypackage, dst []byte) (int, error) {
	from, err := getAddress(addrHandle)
	if err != nil {
		return 0, err
	}
	payload, err := tx.BuildNodeJoin(network, nonce, from, toStaking, name, contact, validatorPubkeyB64, keypackage)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}
