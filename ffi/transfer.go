package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/pkg/tx"
	"github.com/cro-chain/cro-client/pkg/types"
)

// CreateTransferTx starts an empty transfer transaction for a network.
func CreateTransferTx(network types.Network) Handle {
	return registry.Put(handle.KindTx, tx.NewTransfer(network))
}

// TransferTxAddInput appends an input from string forms: 64-hex txid
// and a bech32 transfer address.
func TransferTxAddInput(h Handle, txidHex string, index uint16, addr string, coin types.Coin) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddInput(txidHex, index, addr, coin)
}

// TransferTxAddInputRaw appends an input from raw bytes (32-byte txid,
// 32-byte address root). Equivalent to TransferTxAddInput.
func TransferTxAddInputRaw(h Handle, txid []byte, index uint16, root []byte, coin types.Coin) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddInputRaw(txid, index, root, coin)
}

// TransferTxAddOutput appends an output paying a bech32 address.
func TransferTxAddOutput(h Handle, addr string, coin types.Coin) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddOutput(addr, coin)
}

// TransferTxAddOutputRaw appends an output paying a raw 32-byte root.
func TransferTxAddOutputRaw(h Handle, root []byte, coin types.Coin) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddOutputRaw(root, coin)
}

// TransferTxAddViewkey records a hex-encoded viewkey.
func TransferTxAddViewkey(h Handle, viewkeyHex string) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddViewkey(viewkeyHex)
}

// TransferTxAddViewkeyRaw records a raw 33-byte viewkey.
func TransferTxAddViewkeyRaw(h Handle, raw []byte) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	return t.AddViewkeyRaw(raw)
}

// TransferTxSignInput signs input idx with the key behind addrHandle.
func TransferTxSignInput(h, addrHandle Handle, idx uint16) error {
	t, err := getTransferTx(h)
	if err != nil {
		return err
	}
	signer, err := getAddress(addrHandle)
	if err != nil {
		return err
	}
	return t.SignInput(signer, idx)
}

// TransferTxFinalize writes the fully-signed serialization into dst
// (at least FinalizedTxBufSize bytes). Fails while any input slot is
// unsigned, leaving the transaction unchanged for a later retry.
func TransferTxFinalize(h Handle, dst []byte) (int, error) {
	t, err := getTransferTx(h)
	if err != nil {
		return 0, err
	}
	payload, err := t.Finalize()
	if err != nil {
		return 0, err
	}
	return writePayload(dst, payload, FinalizedTxBufSize)
}

// DestroyTransferTx invalidates the transaction handle.
func DestroyTransferTx(h Handle) error {
	_, err := registry.Destroy(h, handle.KindTx)
	return err
}
