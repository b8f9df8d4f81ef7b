// Package tx assembles, signs, and serializes the transaction kinds the
// chain accepts: plain/confidential transfers, confidential deposits,
// and the staking-state operations (unbond, withdraw, unjail, node-join).
package tx

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Payload kind tags in the canonical serialization.
const (
	tagTransfer byte = iota
	tagDeposit
	tagUnbond
	tagWithdraw
	tagUnjail
	tagNodeJoin
)

// State and signing errors, reported distinctly from input-validation
// errors so callers can tell a bad call sequence from bad data.
var (
	// ErrIncompleteSignatures: finalize called with at least one unsigned
	// input slot. The transaction is left unchanged.
	ErrIncompleteSignatures = errors.New("transaction has unsigned inputs")

	// ErrInputOutOfRange: sign index does not name an existing input.
	ErrInputOutOfRange = errors.New("input index out of range")

	// ErrKeyMismatch: the supplied key cannot spend the named input.
	ErrKeyMismatch = errors.New("key does not match input spending address")

	// ErrSlotConflict: the slot already holds a signature from a
	// different key. Re-signing with the same key is permitted.
	ErrSlotConflict = errors.New("input already signed with a different key")

	// ErrSignedInputs: inputs, outputs, and viewkeys are frozen once any
	// slot is signed; a mutation would invalidate the existing witnesses.
	ErrSignedInputs = errors.New("transaction already has signed inputs")

	// ErrDepositNoOutputs: deposit transactions have a single implicit
	// staking destination and accept no outputs.
	ErrDepositNoOutputs = errors.New("deposit transaction cannot take outputs")

	// ErrNetworkMismatch: an address encoded for a different network was
	// added to the transaction.
	ErrNetworkMismatch = errors.New("address network does not match transaction network")
)

// Input references a UTXO being spent, with one witness slot.
type Input struct {
	PrevOut types.TxoPointer
	// Root is the spend-tree root of the transfer address that owns the
	// referenced output; signing must be performed by its key.
	Root [32]byte
	Coin types.Coin

	witness *witness
}

// Signed reports whether the input's witness slot is filled.
func (in *Input) Signed() bool {
	return in.witness != nil
}

// Output creates a new UTXO at a transfer address root.
type Output struct {
	Root [32]byte
	Coin types.Coin
}

// witness is a filled signature slot: Schnorr signature plus the
// compressed public key it verifies under.
type witness struct {
	signature []byte
	pubKey    []byte
}

// parseInput validates the string forms shared by every add-txin call.
func parseInput(txidHex string, index uint16, addrStr string, coin types.Coin, network types.Network) (Input, error) {
	id, err := types.ParseTxID(txidHex)
	if err != nil {
		return Input{}, err
	}
	root, addrNetwork, err := address.ParseTransfer(addrStr)
	if err != nil {
		return Input{}, err
	}
	if addrNetwork.TransferHRP() != network.TransferHRP() {
		return Input{}, fmt.Errorf("%w: input %s", ErrNetworkMismatch, addrStr)
	}
	return Input{PrevOut: types.TxoPointer{TxID: id, Index: index}, Root: root, Coin: coin}, nil
}

// parseInputRaw validates the raw-byte form; it must produce the same
// internal representation as the string form.
func parseInputRaw(txid []byte, index uint16, root []byte, coin types.Coin) (Input, error) {
	id, err := types.TxIDFromBytes(txid)
	if err != nil {
		return Input{}, err
	}
	if len(root) != 32 {
		return Input{}, fmt.Errorf("transfer address must be 32 bytes, got %d", len(root))
	}
	in := Input{PrevOut: types.TxoPointer{TxID: id, Index: index}, Coin: coin}
	copy(in.Root[:], root)
	return in, nil
}

// signInput fills the witness slot at idx, honoring the slot invariants
// shared by transfer and deposit transactions.
func signInput(inputs []Input, signer *address.Address, idx uint16, hash [32]byte) error {
	if int(idx) >= len(inputs) {
		return fmt.Errorf("%w: %d of %d", ErrInputOutOfRange, idx, len(inputs))
	}
	if signer.Kind() != address.Transfer {
		return fmt.Errorf("%w: %s address cannot spend a transfer output", ErrKeyMismatch, signer.Kind())
	}

	in := &inputs[idx]
	pubKey := signer.PublicKey()
	if signer.TransferRoot() != in.Root {
		return ErrKeyMismatch
	}
	// Same key re-signing falls through and recomputes over the current
	// canonical bytes instead of keeping the old signature.
	if in.witness != nil && string(in.witness.pubKey) != string(pubKey) {
		return ErrSlotConflict
	}

	sig, err := signer.PrivateKey().Sign(hash[:])
	if err != nil {
		return fmt.Errorf("sign input %d: %w", idx, err)
	}
	in.witness = &witness{signature: sig, pubKey: pubKey}
	return nil
}

// anySigned reports whether any witness slot is filled. Builders use it
// to freeze their input/output/viewkey sets once signing has started.
func anySigned(inputs []Input) bool {
	for i := range inputs {
		if inputs[i].witness != nil {
			return true
		}
	}
	return false
}

func unsignedCount(inputs []Input) int {
	n := 0
	for i := range inputs {
		if inputs[i].witness == nil {
			n++
		}
	}
	return n
}

// Serialization helpers: little-endian, length-prefixed.

func appendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

func appendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func appendInputs(buf []byte, inputs []Input) []byte {
	buf = appendUint16(buf, uint16(len(inputs)))
	for i := range inputs {
		buf = append(buf, inputs[i].PrevOut.TxID[:]...)
		buf = appendUint16(buf, inputs[i].PrevOut.Index)
		buf = append(buf, inputs[i].Root[:]...)
		buf = appendUint64(buf, uint64(inputs[i].Coin))
	}
	return buf
}

func appendWitnesses(buf []byte, inputs []Input) []byte {
	buf = appendUint16(buf, uint16(len(inputs)))
	for i := range inputs {
		buf = append(buf, inputs[i].witness.signature...)
		buf = append(buf, inputs[i].witness.pubKey...)
	}
	return buf
}

func appendBytes(buf, b []byte) []byte {
	buf = appendUint16(buf, uint16(len(b)))
	return append(buf, b...)
}

// signOnce produces the single witness used by one-shot staking payloads.
func signOnce(signer *crypto.PrivateKey, unsigned []byte) ([]byte, error) {
	hash := crypto.Hash(unsigned)
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return nil, err
	}
	out := append([]byte{}, unsigned...)
	out = append(out, sig...)
	out = append(out, signer.PublicKey()...)
	return out, nil
}
