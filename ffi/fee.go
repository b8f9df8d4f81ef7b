package ffi

import (
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/pkg/tx"
	"github.com/cro-chain/cro-client/pkg/types"
)

// CreateLinearFee parses two decimal strings (at most three fractional
// digits) into an immutable fee schedule handle.
func CreateLinearFee(constant, coefficient string) (Handle, error) {
	fee, err := tx.NewLinearFee(constant, coefficient)
	if err != nil {
		return 0, err
	}
	return registry.Put(handle.KindFee, fee), nil
}

// FeeEstimate returns the fee in carson for a payload of the given size.
func FeeEstimate(h Handle, payloadSize uint32) (types.Coin, error) {
	fee, err := getFee(h)
	if err != nil {
		return 0, err
	}
	return fee.Estimate(payloadSize), nil
}

// FeeEstimateAfterEncrypt prices the payload as it will broadcast after
// the confidential envelope is added.
func FeeEstimateAfterEncrypt(h Handle, payloadSize uint32) (types.Coin, error) {
	fee, err := getFee(h)
	if err != nil {
		return 0, err
	}
	return fee.EstimateAfterEncrypt(payloadSize), nil
}

// DestroyLinearFee invalidates the fee handle.
func DestroyLinearFee(h Handle) error {
	_, err := registry.Destroy(h, handle.KindFee)
	return err
}
