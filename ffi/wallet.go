package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/internal/hdwallet"
	"github.com/cro-chain/cro-client/internal/log"
	"github.com/cro-chain/cro-client/pkg/types"
)

// CreateHDWallet generates a fresh wallet and writes its mnemonic into
// mnemonicBuf (at least MnemonicBufSize bytes). The mnemonic is the
// only way to restore the wallet; callers must persist it before using
// the handle. Returns the handle and the mnemonic length in bytes.
func CreateHDWallet(mnemonicBuf []byte) (Handle, int, error) {
	wallet, mnemonic, err := hdwallet.Generate()
	if err != nil {
		return 0, 0, err
	}
	n, err := writePayload(mnemonicBuf, []byte(mnemonic), MnemonicBufSize)
	if err != nil {
		// No handle was issued; the wallet is dropped, not leaked.
		return 0, 0, err
	}
	log.FFI.Debug().Msg("hd wallet created")
	return registry.Put(handle.KindWallet, wallet), n, nil
}

// RestoreHDWallet rebuilds a wallet from its mnemonic phrase.
func RestoreHDWallet(mnemonic string) (Handle, error) {
	wallet, err := hdwallet.Restore(mnemonic)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindWallet, wallet), nil
}

// WalletStakingAddress derives the staking address at index and
// registers it as an independent address handle; destroying the wallet
// does not invalidate derived addresses.
func WalletStakingAddress(h Handle, network types.Network, index uint32) (Handle, error) {
	wallet, err := getWallet(h)
	if err != nil {
		return 0, err
	}
	addr, err := wallet.StakingAddress(network, index)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindAddress, addr), nil
}

// WalletTransferAddress derives the transfer address at index.
func WalletTransferAddress(h Handle, network types.Network, index uint32) (Handle, error) {
	wallet, err := getWallet(h)
	if err != nil {
		return 0, err
	}
	addr, err := wallet.TransferAddress(network, index)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindAddress, addr), nil
}

// WalletViewkey derives the viewkey at index.
func WalletViewkey(h Handle, network types.Network, index uint32) (Handle, error) {
	wallet, err := getWallet(h)
	if err != nil {
		return 0, err
	}
	addr, err := wallet.Viewkey(network, index)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindAddress, addr), nil
}

// DestroyHDWallet invalidates the wallet handle.
func DestroyHDWallet(h Handle) error {
	_, err := registry.Destroy(h, handle.KindWallet)
	return err
}
