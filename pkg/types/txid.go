package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// TxIDSize is the length of a transaction id in bytes.
const TxIDSize = 32

// TxID identifies a prior transaction (256-bit hash).
type TxID [TxIDSize]byte

// IsZero returns true if the id is all zeros.
func (t TxID) IsZero() bool {
	return t == TxID{}
}

// String returns the hex-encoded id.
func (t TxID) String() string {
	return hex.EncodeToString(t[:])
}

// Bytes returns a copy of the id as a byte slice.
func (t TxID) Bytes() []byte {
	b := make([]byte, TxIDSize)
	copy(b, t[:])
	return b
}

// MarshalJSON encodes the id as a hex string.
func (t TxID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a hex string into a transaction id.
func (t *TxID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = TxID{}
		return nil
	}
	parsed, err := ParseTxID(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTxID converts a 64-character hex string to a TxID.
func ParseTxID(s string) (TxID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return TxID{}, fmt.Errorf("invalid txid hex: %w", err)
	}
	return TxIDFromBytes(b)
}

// TxIDFromBytes converts raw bytes to a TxID.
// Returns an error unless exactly 32 bytes are given.
func TxIDFromBytes(b []byte) (TxID, error) {
	if len(b) != TxIDSize {
		return TxID{}, fmt.Errorf("txid must be %d bytes, got %d", TxIDSize, len(b))
	}
	var t TxID
	copy(t[:], b)
	return t, nil
}

// TxoPointer references a specific output of a prior transaction.
type TxoPointer struct {
	TxID  TxID   `json:"id"`
	Index uint16 `json:"index"`
}

// String returns "txid:index" in hex.
func (p TxoPointer) String() string {
	return fmt.Sprintf("%s:%d", p.TxID.String(), p.Index)
}
