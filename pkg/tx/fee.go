package tx

import (
	"fmt"
	"math"
	"strings"

	"github.com/cro-chain/cro-client/pkg/types"
)

// LinearFee prices a transaction as constant + coefficient * payload
// size. Parameters are fixed-point with three fractional digits
// (milli-carson internally); estimates round up to whole carson.
// Immutable after creation.
type LinearFee struct {
	constant    uint64 // milli-carson
	coefficient uint64 // milli-carson per byte
}

// encryptOverheadBytes is the enclave envelope growth priced into
// post-encryption estimates: a fixed frame plus one length word per
// 256-byte ciphertext block.
func encryptOverheadBytes(payloadSize uint32) uint32 {
	return 97 + 8*((payloadSize+255)/256)
}

// NewLinearFee parses two decimal strings (at most three fractional
// digits, e.g. "1.1" or "0.005") into a fee schedule.
func NewLinearFee(constant, coefficient string) (*LinearFee, error) {
	c, err := parseMilli(constant)
	if err != nil {
		return nil, fmt.Errorf("fee constant: %w", err)
	}
	k, err := parseMilli(coefficient)
	if err != nil {
		return nil, fmt.Errorf("fee coefficient: %w", err)
	}
	return &LinearFee{constant: c, coefficient: k}, nil
}

// Estimate returns the fee in carson for a payload of the given size.
// Monotonically non-decreasing in payloadSize; extreme schedules
// saturate at the coin supply cap instead of wrapping.
func (f *LinearFee) Estimate(payloadSize uint32) types.Coin {
	size := uint64(payloadSize)
	milli := f.coefficient * size
	if size != 0 && milli/size != f.coefficient {
		return types.MaxCoin
	}
	milli += f.constant
	if milli < f.constant || milli > math.MaxUint64-999 {
		return types.MaxCoin
	}
	fee := types.Coin((milli + 999) / 1000)
	if fee > types.MaxCoin {
		return types.MaxCoin
	}
	return fee
}

// EstimateAfterEncrypt prices the payload as it will broadcast after the
// confidential-encryption envelope is added. Always >= Estimate for the
// same size.
func (f *LinearFee) EstimateAfterEncrypt(payloadSize uint32) types.Coin {
	return f.Estimate(payloadSize + encryptOverheadBytes(payloadSize))
}

// parseMilli converts a decimal string to milli units (x1000).
func parseMilli(s string) (uint64, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return 0, fmt.Errorf("malformed decimal %q", s)
	}
	if len(frac) > 3 {
		return 0, fmt.Errorf("at most 3 fractional digits: %q", s)
	}

	var w uint64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed decimal %q", s)
		}
		if w > (1<<63)/10 {
			return 0, fmt.Errorf("decimal %q too large", s)
		}
		w = w*10 + uint64(c-'0')
	}

	var fv uint64
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed decimal %q", s)
		}
		fv = fv*10 + uint64(c-'0')
	}
	for i := len(frac); i < 3; i++ {
		fv *= 10
	}
	if w > (math.MaxUint64-fv)/1000 {
		return 0, fmt.Errorf("decimal %q too large", s)
	}
	return w*1000 + fv, nil
}
