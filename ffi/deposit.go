package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/pkg/tx"
	"github.com/cro-chain/cro-client/pkg/types"
)

// CreateDepositTx starts a deposit transaction paying the given printed
// staking address. The destination is fixed for the handle's lifetime.
func CreateDepositTx(network types.Network, toStaking string) (Handle, error) {
	d, err := tx.NewDeposit(network, toStaking)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindDepositTx, d), nil
}

// DepositTxAddInput appends an input from string forms.
func DepositTxAddInput(h Handle, txidHex string, index uint16, addr string, coin types.Coin) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	return d.AddInput(txidHex, index, addr, coin)
}

// DepositTxAddInputRaw appends an input from raw bytes.
func DepositTxAddInputRaw(h Handle, txid []byte, index uint16, root []byte, coin types.Coin) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	return d.AddInputRaw(txid, index, root, coin)
}

// DepositTxAddOutput always fails: deposits carry no outputs.
func DepositTxAddOutput(h Handle, addr string, coin types.Coin) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	return d.AddOutput(addr, coin)
}

// DepositTxAddViewkey records a hex-encoded viewkey.
func DepositTxAddViewkey(h Handle, viewkeyHex string) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	return d.AddViewkey(viewkeyHex)
}

// DepositTxAddViewkeyRaw records a raw 33-byte viewkey.
func DepositTxAddViewkeyRaw(h Handle, raw []byte) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	return d.AddViewkeyRaw(raw)
}

// DepositTxSignInput signs input idx with the key behind addrHandle.
func DepositTxSignInput(h, addrHandle Handle, idx uint16) error {
	d, err := getDepositTx(h)
	if err != nil {
		return err
	}
	signer, err := getAddress(addrHandle)
	if err != nil {
		return err
	}
	return d.SignInput(signer, idx)
}

// DepositTxFinalize writes the fully-signed serialization into dst
// (at least FinalizedTxBufSize bytes).
func DepositTxFinalize(h Handle, dst []byte) (int, error) {
	d, err := getDepositTx(h)
	if err != nil {
		return 0, err
	}
	payload, err := d.Finalize()
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// DestroyDepositTx invalidates the transaction handle.
func DestroyDepositTx(h Handle) error {
	_, err := registry.Destroy(h, handle.KindDepositTx)
	return err
}
