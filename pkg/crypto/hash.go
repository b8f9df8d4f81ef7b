package crypto

import (
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// StakingAddressSize is the length of a staking address in bytes.
const StakingAddressSize = 20

// Hash computes a BLAKE3-256 hash of the input data.
// Transaction ids and signing hashes use this.
func Hash(data []byte) [32]byte {
	return blake3.Sum256(data)
}

// TransferRootFromPubKey derives the 32-byte transfer address root
// committed to by an output: the BLAKE3 hash of the compressed public
// key (a single-leaf spend tree).
func TransferRootFromPubKey(compressed []byte) [32]byte {
	return Hash(compressed)
}

// StakingAddressFromPubKey derives the 20-byte staking account address:
// the last 20 bytes of Keccak-256 over the uncompressed public key
// without its 0x04 prefix.
func StakingAddressFromPubKey(uncompressed []byte) [StakingAddressSize]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	sum := h.Sum(nil)
	var addr [StakingAddressSize]byte
	copy(addr[:], sum[len(sum)-StakingAddressSize:])
	return addr
}
