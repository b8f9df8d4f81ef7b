package tx

import (
	"fmt"

	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// DepositTx moves UTXO value into a staking account. The destination is
// fixed at creation; the transaction carries only inputs (plus optional
// viewkeys for the confidential payload) and rejects outputs outright.
type DepositTx struct {
	network  types.Network
	to       [crypto.StakingAddressSize]byte
	inputs   []Input
	viewkeys [][]byte
}

// NewDeposit creates a deposit transaction paying the given staking
// address ("0x" + 40 hex chars).
func NewDeposit(network types.Network, toStaking string) (*DepositTx, error) {
	to, err := address.ParseStaking(toStaking)
	if err != nil {
		return nil, err
	}
	return &DepositTx{network: network, to: to}, nil
}

// Network returns the transaction's network tag.
func (d *DepositTx) Network() types.Network {
	return d.network
}

// Inputs returns the current input count.
func (d *DepositTx) Inputs() int {
	return len(d.inputs)
}

// AddInput appends an input from its string forms. Fails once any slot
// is signed, since the witnesses cover the canonical bytes the input
// would change.
func (d *DepositTx) AddInput(txidHex string, index uint16, addrStr string, coin types.Coin) error {
	if anySigned(d.inputs) {
		return ErrSignedInputs
	}
	in, err := parseInput(txidHex, index, addrStr, coin, d.network)
	if err != nil {
		return err
	}
	d.inputs = append(d.inputs, in)
	return nil
}

// AddInputRaw appends an input from raw bytes.
func (d *DepositTx) AddInputRaw(txid []byte, index uint16, root []byte, coin types.Coin) error {
	if anySigned(d.inputs) {
		return ErrSignedInputs
	}
	in, err := parseInputRaw(txid, index, root, coin)
	if err != nil {
		return err
	}
	d.inputs = append(d.inputs, in)
	return nil
}

// AddOutput always fails: the staking destination is the only output and
// was fixed at creation.
func (d *DepositTx) AddOutput(string, types.Coin) error {
	return ErrDepositNoOutputs
}

// AddViewkey records a hex-encoded viewkey. Order is preserved.
func (d *DepositTx) AddViewkey(viewkeyHex string) error {
	if anySigned(d.inputs) {
		return ErrSignedInputs
	}
	vk, err := address.ParseViewkey(viewkeyHex)
	if err != nil {
		return err
	}
	d.viewkeys = append(d.viewkeys, vk)
	return nil
}

// AddViewkeyRaw records a raw 33-byte viewkey.
func (d *DepositTx) AddViewkeyRaw(raw []byte) error {
	if anySigned(d.inputs) {
		return ErrSignedInputs
	}
	if err := crypto.ValidatePublicKey(raw); err != nil {
		return fmt.Errorf("invalid viewkey: %w", err)
	}
	d.viewkeys = append(d.viewkeys, append([]byte{}, raw...))
	return nil
}

// SignInput signs input idx with the given transfer address's key.
func (d *DepositTx) SignInput(signer *address.Address, idx uint16) error {
	return signInput(d.inputs, signer, idx, crypto.Hash(d.unsignedBytes()))
}

// Finalize serializes the fully-signed deposit, failing with
// ErrIncompleteSignatures while any slot is unsigned.
func (d *DepositTx) Finalize() ([]byte, error) {
	if n := unsignedCount(d.inputs); n > 0 {
		return nil, fmt.Errorf("%w: %d of %d", ErrIncompleteSignatures, n, len(d.inputs))
	}
	return appendWitnesses(d.unsignedBytes(), d.inputs), nil
}

func (d *DepositTx) unsignedBytes() []byte {
	buf := []byte{byte(d.network), tagDeposit}
	buf = append(buf, d.to[:]...)
	buf = appendInputs(buf, d.inputs)
	buf = appendUint16(buf, uint16(len(d.viewkeys)))
	for _, vk := range d.viewkeys {
		buf = append(buf, vk...)
	}
	return buf
}
