package hdwallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// BIP-44 derivation constants.
// Full path: m/44'/394'/account'/0/index, where the account selects the
// address variant.
const (
	purposeBIP44 = bip32.FirstHardenedChild + 44

	// coinTypeCRO is the registered SLIP-44 coin type.
	coinTypeCRO = bip32.FirstHardenedChild + 394

	// Hardened account per address variant.
	accountStaking  = bip32.FirstHardenedChild + 0
	accountTransfer = bip32.FirstHardenedChild + 1
	accountViewkey  = bip32.FirstHardenedChild + 2
)

// Wallet owns a mnemonic-derived master key. Derivation never mutates
// the wallet: the same (variant, network, index) always answers with the
// same address, and previously issued addresses are unaffected by later
// calls.
type Wallet struct {
	master *bip32.Key
}

// Generate creates a fresh wallet and returns it with its mnemonic,
// which is the only way to restore the wallet later.
func Generate() (*Wallet, string, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, "", err
	}
	w, err := Restore(mnemonic)
	if err != nil {
		return nil, "", err
	}
	return w, mnemonic, nil
}

// Restore rebuilds a wallet from its mnemonic phrase.
// Fails with ErrInvalidMnemonic on checksum or wordlist violations.
func Restore(mnemonic string) (*Wallet, error) {
	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &Wallet{master: master}, nil
}

// The derivation path is network-independent: one mnemonic answers with
// the same key material on every chain, and the network parameter only
// selects the printed form of the derived address (Address.Printed).

// StakingAddress derives the staking address at the given index.
func (w *Wallet) StakingAddress(network types.Network, index uint32) (*address.Address, error) {
	return w.derive(address.Staking, accountStaking, index)
}

// TransferAddress derives the transfer address at the given index.
func (w *Wallet) TransferAddress(network types.Network, index uint32) (*address.Address, error) {
	return w.derive(address.Transfer, accountTransfer, index)
}

// Viewkey derives the viewkey at the given index.
func (w *Wallet) Viewkey(network types.Network, index uint32) (*address.Address, error) {
	return w.derive(address.Viewkey, accountViewkey, index)
}

func (w *Wallet) derive(kind address.Kind, account, index uint32) (*address.Address, error) {
	key := w.master
	for _, step := range []uint32{purposeBIP44, coinTypeCRO, account, 0, index} {
		child, err := key.NewChildKey(step)
		if err != nil {
			return nil, fmt.Errorf("derive %s index %d: %w", kind, index, err)
		}
		key = child
	}
	priv, err := crypto.PrivateKeyFromBytes(privateKeyBytes(key))
	if err != nil {
		return nil, fmt.Errorf("derive %s index %d: %w", kind, index, err)
	}
	return address.FromPrivateKey(kind, priv), nil
}

// privateKeyBytes strips bip32's leading 0x00 pad from private key material.
func privateKeyBytes(key *bip32.Key) []byte {
	raw := key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}
