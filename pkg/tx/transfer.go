package tx

import (
	"fmt"

	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Tx is a plain or confidential transfer transaction under construction.
// Inputs, outputs, and viewkeys may be added in any order until the
// first signature freezes them; each input must then be signed by its
// spending key before Finalize succeeds.
type Tx struct {
	network  types.Network
	inputs   []Input
	outputs  []Output
	viewkeys [][]byte
}

// NewTransfer creates an empty transfer transaction for a network.
func NewTransfer(network types.Network) *Tx {
	return &Tx{network: network}
}

// Network returns the transaction's network tag.
func (t *Tx) Network() types.Network {
	return t.network
}

// Inputs returns the current input count.
func (t *Tx) Inputs() int {
	return len(t.inputs)
}

// AddInput appends an input from its string forms: a 64-hex-char txid
// and a bech32 transfer address. Fails once any slot is signed, since
// the witnesses cover the canonical bytes the input would change.
func (t *Tx) AddInput(txidHex string, index uint16, addrStr string, coin types.Coin) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	in, err := parseInput(txidHex, index, addrStr, coin, t.network)
	if err != nil {
		return err
	}
	t.inputs = append(t.inputs, in)
	return nil
}

// AddInputRaw appends an input from raw bytes (32-byte txid, 32-byte
// transfer address root). Equivalent to AddInput for the same values.
func (t *Tx) AddInputRaw(txid []byte, index uint16, root []byte, coin types.Coin) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	in, err := parseInputRaw(txid, index, root, coin)
	if err != nil {
		return err
	}
	t.inputs = append(t.inputs, in)
	return nil
}

// AddOutput appends an output paying a bech32 transfer address.
func (t *Tx) AddOutput(addrStr string, coin types.Coin) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	root, addrNetwork, err := address.ParseTransfer(addrStr)
	if err != nil {
		return err
	}
	if addrNetwork.TransferHRP() != t.network.TransferHRP() {
		return fmt.Errorf("%w: output %s", ErrNetworkMismatch, addrStr)
	}
	t.outputs = append(t.outputs, Output{Root: root, Coin: coin})
	return nil
}

// AddOutputRaw appends an output paying a raw 32-byte address root.
func (t *Tx) AddOutputRaw(root []byte, coin types.Coin) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	if len(root) != 32 {
		return fmt.Errorf("transfer address must be 32 bytes, got %d", len(root))
	}
	out := Output{Coin: coin}
	copy(out.Root[:], root)
	t.outputs = append(t.outputs, out)
	return nil
}

// AddViewkey records a hex-encoded viewkey granting decrypt visibility
// over the confidential payload. Order is preserved.
func (t *Tx) AddViewkey(viewkeyHex string) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	vk, err := address.ParseViewkey(viewkeyHex)
	if err != nil {
		return err
	}
	t.viewkeys = append(t.viewkeys, vk)
	return nil
}

// AddViewkeyRaw records a raw 33-byte viewkey.
func (t *Tx) AddViewkeyRaw(raw []byte) error {
	if anySigned(t.inputs) {
		return ErrSignedInputs
	}
	if err := crypto.ValidatePublicKey(raw); err != nil {
		return fmt.Errorf("invalid viewkey: %w", err)
	}
	t.viewkeys = append(t.viewkeys, append([]byte{}, raw...))
	return nil
}

// SignInput signs input idx with the given transfer address's key.
// Signing one slot never touches the others.
func (t *Tx) SignInput(signer *address.Address, idx uint16) error {
	return signInput(t.inputs, signer, idx, crypto.Hash(t.unsignedBytes()))
}

// Finalize serializes the fully-signed transaction. It fails with
// ErrIncompleteSignatures — leaving the transaction unchanged — while
// any input slot is unsigned; retrying after signing is permitted.
func (t *Tx) Finalize() ([]byte, error) {
	if n := unsignedCount(t.inputs); n > 0 {
		return nil, fmt.Errorf("%w: %d of %d", ErrIncompleteSignatures, n, len(t.inputs))
	}
	return appendWitnesses(t.unsignedBytes(), t.inputs), nil
}

// unsignedBytes is the canonical serialization covered by every input's
// signature: network | tag | inputs | outputs | viewkeys.
func (t *Tx) unsignedBytes() []byte {
	buf := []byte{byte(t.network), tagTransfer}
	buf = appendInputs(buf, t.inputs)
	buf = appendUint16(buf, uint16(len(t.outputs)))
	for i := range t.outputs {
		buf = append(buf, t.outputs[i].Root[:]...)
		buf = appendUint64(buf, uint64(t.outputs[i].Coin))
	}
	buf = appendUint16(buf, uint16(len(t.viewkeys)))
	for _, vk := range t.viewkeys {
		buf = append(buf, vk...)
	}
	return buf
}
