package types

import (
	"bytes"
	"strings"
	"testing"
)

func TestCoin_Add(t *testing.T) {
	sum, err := Coin(1 * CarsonPerCRO).Add(Coin(2 * CarsonPerCRO))
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if sum != 3*CarsonPerCRO {
		t.Errorf("Add() = %d, want %d", sum, 3*CarsonPerCRO)
	}

	if _, err := MaxCoin.Add(1); err == nil {
		t.Error("Add() beyond MaxCoin should fail")
	}
}

func TestCoin_Sub(t *testing.T) {
	if _, err := Coin(5).Sub(10); err == nil {
		t.Error("Sub() underflow should fail")
	}
	d, err := Coin(10).Sub(4)
	if err != nil || d != 6 {
		t.Errorf("Sub() = %d, %v; want 6, nil", d, err)
	}
}

func TestCoin_String(t *testing.T) {
	if got := Coin(150000000).String(); got != "1.50000000" {
		t.Errorf("String() = %q, want %q", got, "1.50000000")
	}
}

func TestNetwork_TransferHRP(t *testing.T) {
	if got := Mainnet.TransferHRP(); got != "cro" {
		t.Errorf("mainnet HRP = %q, want cro", got)
	}
	if got := Testnet.TransferHRP(); got != "tcro" {
		t.Errorf("testnet HRP = %q, want tcro", got)
	}
	if got := Network(0xab).TransferHRP(); got != "dcro" {
		t.Errorf("devnet HRP = %q, want dcro", got)
	}
}

func TestParseTxID_RoundTrip(t *testing.T) {
	s := strings.Repeat("ab", 32)
	id, err := ParseTxID(s)
	if err != nil {
		t.Fatalf("ParseTxID() error: %v", err)
	}
	if id.String() != s {
		t.Errorf("round trip = %q, want %q", id.String(), s)
	}
}

func TestParseTxID_Invalid(t *testing.T) {
	if _, err := ParseTxID("zz"); err == nil {
		t.Error("non-hex txid should fail")
	}
	if _, err := ParseTxID("abcd"); err == nil {
		t.Error("short txid should fail")
	}
}

func TestTxIDFromBytes_WrongLength(t *testing.T) {
	if _, err := TxIDFromBytes(make([]byte, 31)); err == nil {
		t.Error("31-byte txid should fail")
	}
}

func TestBech32_RoundTrip(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i * 7)
	}
	enc, err := Bech32Encode("dcro", data)
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	hrp, dec, err := Bech32Decode(enc)
	if err != nil {
		t.Fatalf("Bech32Decode() error: %v", err)
	}
	if hrp != "dcro" {
		t.Errorf("hrp = %q, want dcro", hrp)
	}
	if !bytes.Equal(dec, data) {
		t.Error("decoded data mismatch")
	}
}

func TestBech32_RejectsCorruption(t *testing.T) {
	enc, err := Bech32Encode("cro", make([]byte, 32))
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	bad := enc[:len(enc)-1] + "x"
	if bad == enc {
		bad = enc[:len(enc)-1] + "q"
	}
	if _, _, err := Bech32Decode(bad); err == nil {
		t.Error("corrupted checksum should fail")
	}
	if _, _, err := Bech32Decode("Cro1MixedCase"); err == nil {
		t.Error("mixed case should fail")
	}
}
