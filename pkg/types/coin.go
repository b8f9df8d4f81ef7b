// Package types defines core primitive types for the CRO client engine.
package types

import (
	"fmt"
	"math"
)

// CarsonPerCRO is the number of indivisible base units in one whole coin.
// 1 CRO = 10^8 carson.
const CarsonPerCRO = 100_000_000

// MaxCoin is the total supply cap in carson (10^10 CRO).
const MaxCoin Coin = 10_000_000_000 * CarsonPerCRO

// Coin is an amount of value in carson, the indivisible base unit.
type Coin uint64

// Add returns c+other, or an error if the sum overflows or exceeds MaxCoin.
func (c Coin) Add(other Coin) (Coin, error) {
	if uint64(c) > math.MaxUint64-uint64(other) {
		return 0, fmt.Errorf("coin overflow: %d + %d", c, other)
	}
	sum := c + other
	if sum > MaxCoin {
		return 0, fmt.Errorf("coin sum %d exceeds total supply", sum)
	}
	return sum, nil
}

// Sub returns c-other, or an error if other is larger than c.
func (c Coin) Sub(other Coin) (Coin, error) {
	if other > c {
		return 0, fmt.Errorf("coin underflow: %d - %d", c, other)
	}
	return c - other, nil
}

// String renders the amount as a decimal CRO value, e.g. "1.00000000".
func (c Coin) String() string {
	return fmt.Sprintf("%d.%08d", uint64(c)/CarsonPerCRO, uint64(c)%CarsonPerCRO)
}
