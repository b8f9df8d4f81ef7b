package tx

import (
	"encoding/base64"
	"fmt"

	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/crypto"
	"github.com/cro-chain/cro-client/pkg/types"
)

// Staking-state operations are one-shot: they are built and signed in a
// single call because they carry a nonce that must match the account's
// current on-chain value. Callers fetch the nonce via the network client
// and re-fetch after every accepted staking transaction.

// ed25519PubKeySize is the raw length of a validator consensus pubkey.
const ed25519PubKeySize = 32

// BuildUnbond creates and signs a bonded -> unbonded transition.
// from must be a staking address; toStaking is the printed destination
// staking address.
func BuildUnbond(network types.Network, nonce uint64, from *address.Address, toStaking string, amount types.Coin) ([]byte, error) {
	to, err := requireStakingPair(from, toStaking)
	if err != nil {
		return nil, err
	}
	buf := []byte{byte(network), tagUnbond}
	buf = appendUint64(buf, nonce)
	buf = append(buf, to[:]...)
	buf = appendUint64(buf, uint64(amount))
	return signOnce(from.PrivateKey(), buf)
}

// BuildUnjail creates and signs an unjail request for a jailed account.
func BuildUnjail(network types.Network, nonce uint64, from *address.Address, toStaking string) ([]byte, error) {
	to, err := requireStakingPair(from, toStaking)
	if err != nil {
		return nil, err
	}
	buf := []byte{byte(network), tagUnjail}
	buf = appendUint64(buf, nonce)
	buf = append(buf, to[:]...)
	return signOnce(from.PrivateKey(), buf)
}

// BuildNodeJoin creates and signs a validator-join request. The
// validator pubkey is a base64-encoded 32-byte ed25519 consensus key;
// the keypackage is a protocol-specific payload carried opaquely.
func BuildNodeJoin(network types.Network, nonce uint64, from *address.Address, toStaking, name, contact, validatorPubkeyB64 string, keypackage []byte) ([]byte, error) {
	to, err := requireStakingPair(from, toStaking)
	if err != nil {
		return nil, err
	}
	pubkey, err := base64.StdEncoding.DecodeString(validatorPubkeyB64)
	if err != nil {
		return nil, fmt.Errorf("invalid validator pubkey: %w", err)
	}
	if len(pubkey) != ed25519PubKeySize {
		return nil, fmt.Errorf("validator pubkey must be %d bytes, got %d", ed25519PubKeySize, len(pubkey))
	}

	buf := []byte{byte(network), tagNodeJoin}
	buf = appendUint64(buf, nonce)
	buf = append(buf, to[:]...)
	buf = appendBytes(buf, []byte(name))
	buf = appendBytes(buf, []byte(contact))
	buf = append(buf, pubkey...)
	buf = appendBytes(buf, keypackage)
	return signOnce(from.PrivateKey(), buf)
}

// BuildWithdraw creates and signs an unbonded -> UTXO withdrawal paying
// a transfer address, with optional hex-encoded viewkeys embedded for
// later decrypt visibility.
func BuildWithdraw(network types.Network, nonce uint64, from *address.Address, toTransfer string, viewkeys []string) ([]byte, error) {
	if from.Kind() != address.Staking {
		return nil, fmt.Errorf("%w: withdraw requires a staking key, got %s", ErrKeyMismatch, from.Kind())
	}
	root, addrNetwork, err := address.ParseTransfer(toTransfer)
	if err != nil {
		return nil, err
	}
	if addrNetwork.TransferHRP() != network.TransferHRP() {
		return nil, fmt.Errorf("%w: destination %s", ErrNetworkMismatch, toTransfer)
	}

	parsed := make([][]byte, 0, len(viewkeys))
	for _, vk := range viewkeys {
		b, err := address.ParseViewkey(vk)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, b)
	}

	buf := []byte{byte(network), tagWithdraw}
	buf = appendUint64(buf, nonce)
	from20 := from.StakingAccount()
	buf = append(buf, from20[:]...)
	buf = append(buf, root[:]...)
	buf = appendUint16(buf, uint16(len(parsed)))
	for _, vk := range parsed {
		buf = append(buf, vk...)
	}
	return signOnce(from.PrivateKey(), buf)
}

func requireStakingPair(from *address.Address, toStaking string) ([crypto.StakingAddressSize]byte, error) {
	var to [crypto.StakingAddressSize]byte
	if from.Kind() != address.Staking {
		return to, fmt.Errorf("%w: staking operation requires a staking key, got %s", ErrKeyMismatch, from.Kind())
	}
	return address.ParseStaking(toStaking)
}
