// Package address implements the three key/address variants used by the
// chain: staking accounts, transfer (UTXO) addresses, and viewkeys for
// confidential transaction visibility.
package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Kind selects the address variant.
type Kind uint8

const (
	Staking Kind = iota
	Transfer
	Viewkey
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case Staking:
		return "staking"
	case Transfer:
		return "transfer"
	case Viewkey:
		return "viewkey"
	default:
		return "unknown"
	}
}

// Address owns one keypair of a given variant. Every Address is backed
// by a 32-byte secret; the printed and raw forms depend on the variant.
type Address struct {
	kind Kind
	priv *crypto.PrivateKey
}

// New generates a fresh Address of the given kind from secure randomness.
func New(kind Kind) (*Address, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Address{kind: kind, priv: priv}, nil
}

// Restore reconstructs an Address deterministically from a 32-byte secret.
// Restoring the same bytes always yields byte-identical exported material.
func Restore(kind Kind, raw []byte) (*Address, error) {
	priv, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("restore %s address: %w", kind, err)
	}
	return &Address{kind: kind, priv: priv}, nil
}

// FromPrivateKey wraps an already-derived private key (HD wallet path).
func FromPrivateKey(kind Kind, priv *crypto.PrivateKey) *Address {
	return &Address{kind: kind, priv: priv}
}

// Kind returns the address variant.
func (a *Address) Kind() Kind {
	return a.kind
}

// ExportPrivate returns the 32-byte secret.
func (a *Address) ExportPrivate() []byte {
	return a.priv.Serialize()
}

// PrivateKey returns the signing key backing this address.
func (a *Address) PrivateKey() *crypto.PrivateKey {
	return a.priv
}

// PublicKey returns the compressed 33-byte public key.
func (a *Address) PublicKey() []byte {
	return a.priv.PublicKey()
}

// StakingAccount returns the 20-byte staking account id.
func (a *Address) StakingAccount() [crypto.StakingAddressSize]byte {
	return crypto.StakingAddressFromPubKey(a.priv.PublicKeyUncompressed())
}

// TransferRoot returns the 32-byte spend-tree root a transfer output
// commits to.
func (a *Address) TransferRoot() [32]byte {
	return crypto.TransferRootFromPubKey(a.priv.PublicKey())
}

// RawBytes returns the variant-specific raw address form:
// staking 20 bytes, transfer 32 bytes, viewkey 33 bytes.
func (a *Address) RawBytes() []byte {
	switch a.kind {
	case Staking:
		acct := a.StakingAccount()
		return acct[:]
	case Transfer:
		root := a.TransferRoot()
		return root[:]
	default:
		return a.priv.PublicKey()
	}
}

// Printed renders the variant-specific human-readable form:
// staking "0x"+hex40, transfer bech32 with the network's HRP,
// viewkey 66-character hex of the compressed public key.
func (a *Address) Printed(network types.Network) (string, error) {
	switch a.kind {
	case Staking:
		acct := a.StakingAccount()
		return "0x" + hex.EncodeToString(acct[:]), nil
	case Transfer:
		root := a.TransferRoot()
		return types.Bech32Encode(network.TransferHRP(), root[:])
	case Viewkey:
		return hex.EncodeToString(a.priv.PublicKey()), nil
	default:
		return "", fmt.Errorf("unknown address kind %d", a.kind)
	}
}

// Zero wipes the secret key material. The Address must not be used after.
func (a *Address) Zero() {
	if a.priv != nil {
		a.priv.Zero()
	}
}

// ParseStaking parses a "0x"-prefixed (or bare) 40-hex-char staking address.
func ParseStaking(s string) ([crypto.StakingAddressSize]byte, error) {
	var out [crypto.StakingAddressSize]byte
	hexStr := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return out, fmt.Errorf("invalid staking address: %w", err)
	}
	if len(b) != crypto.StakingAddressSize {
		return out, fmt.Errorf("staking address must be %d bytes, got %d", crypto.StakingAddressSize, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// ParseTransfer parses a bech32 transfer address and returns its 32-byte
// root and the network the HRP belongs to.
func ParseTransfer(s string) ([32]byte, types.Network, error) {
	var root [32]byte
	hrp, data, err := types.Bech32Decode(s)
	if err != nil {
		return root, 0, fmt.Errorf("invalid transfer address: %w", err)
	}
	network, ok := types.FromTransferHRP(hrp)
	if !ok {
		return root, 0, fmt.Errorf("invalid transfer address: unknown HRP %q", hrp)
	}
	if len(data) != 32 {
		return root, 0, fmt.Errorf("transfer address must be 32 bytes, got %d", len(data))
	}
	copy(root[:], data)
	return root, network, nil
}

// ParseViewkey parses a hex-encoded 33-byte compressed public key.
func ParseViewkey(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid viewkey: %w", err)
	}
	if err := crypto.ValidatePublicKey(b); err != nil {
		return nil, fmt.Errorf("invalid viewkey: %w", err)
	}
	return b, nil
}
