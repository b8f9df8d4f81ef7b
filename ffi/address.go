package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/types"
)

// CreateAddress generates a fresh keypair of the given variant and
// registers it, returning the handle the caller owns until destroy.
func CreateAddress(kind address.Kind) (Handle, error) {
	addr, err := address.New(kind)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindAddress, addr), nil
}

// RestoreAddress rebuilds an address from its exported 32-byte secret.
// Restoring the same bytes always re-exports identically.
func RestoreAddress(kind address.Kind, raw []byte) (Handle, error) {
	addr, err := address.Restore(kind, raw)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindAddress, addr), nil
}

// ExportPrivateKey writes the address's 32-byte secret into dst.
func ExportPrivateKey(h Handle, dst []byte) (int, error) {
	addr, err := getAddress(h)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, addr.ExportPrivate(), 0)
}

// ExtractRawAddress writes the variant-specific raw address form into
// dst: staking 20 bytes, transfer 32, viewkey 33.
func ExtractRawAddress(h Handle, dst []byte) (int, error) {
	addr, err := getAddress(h)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, addr.RawBytes(), 0)
}

// PrintedAddress writes the human-readable form for the given network
// into dst, which must be at least PrintedAddressBufSize bytes.
func PrintedAddress(h Handle, network types.Network, dst []byte) (int, error) {
	addr, err := getAddress(h)
	if err != nil {
		return 0, err
	}
	printed, err := addr.Printed(network)
	if err != nil {
		return 0, err
	}
	return writePayload(dst, []byte(printed), PrintedAddressBufSize)
}

// DestroyAddress wipes the key material and invalidates the handle.
// A second destroy of the same handle reports ErrInvalidHandle.
func DestroyAddress(h Handle) error {
	obj, err := registry.Destroy(h, handle.KindAddress)
	if err != nil {
		return err
	}
	obj.(*address.Address).Zero()
	return nil
}
