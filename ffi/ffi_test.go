package ffi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/types"
)

const (
	testNetwork = types.Network(0xab)
	testTxID    = "0101010101010101010101010101010101010101010101010101010101010101"
)

// printedTransfer returns the bech32 form of an address handle.
func printedTransfer(t *testing.T, h Handle) string {
	t.Helper()
	buf := make([]byte, PrintedAddressBufSize)
	n, err := PrintedAddress(h, testNetwork, buf)
	if err != nil {
		t.Fatalf("PrintedAddress() error: %v", err)
	}
	return string(buf[:n])
}

// TestTransferEndToEnd drives the full boundary flow: derive keys, build
// a transfer, sign every input, finalize, and check the serialization
// header.
func TestTransferEndToEnd(t *testing.T) {
	sender, err := CreateAddress(address.Transfer)
	if err != nil {
		t.Fatalf("CreateAddress(sender) error: %v", err)
	}
	defer DestroyAddress(sender)
	receiver, err := CreateAddress(address.Transfer)
	if err != nil {
		t.Fatalf("CreateAddress(receiver) error: %v", err)
	}
	defer DestroyAddress(receiver)

	txh := CreateTransferTx(testNetwork)
	defer DestroyTransferTx(txh)

	if err := TransferTxAddInput(txh, testTxID, 0, printedTransfer(t, sender), 100000000); err != nil {
		t.Fatalf("TransferTxAddInput() error: %v", err)
	}
	if err := TransferTxAddOutput(txh, printedTransfer(t, receiver), 99990000); err != nil {
		t.Fatalf("TransferTxAddOutput() error: %v", err)
	}

	// Finalize before signing must fail with a state code and leave the
	// transaction usable.
	buf := make([]byte, 2048)
	if _, err := TransferTxFinalize(txh, buf); CodeOf(err) != CodeState {
		t.Fatalf("Finalize(unsigned) code = %v, want state", CodeOf(err))
	}

	if err := TransferTxSignInput(txh, sender, 0); err != nil {
		t.Fatalf("TransferTxSignInput() error: %v", err)
	}
	// The witness freezes the transaction: further mutation is a state
	// error, never a silently invalidated signature.
	if err := TransferTxAddOutput(txh, printedTransfer(t, receiver), 1); CodeOf(err) != CodeState {
		t.Fatalf("AddOutput after sign code = %v, want state", CodeOf(err))
	}
	n, err := TransferTxFinalize(txh, buf)
	if err != nil {
		t.Fatalf("TransferTxFinalize() error: %v", err)
	}
	if n == 0 {
		t.Fatal("finalized payload is empty")
	}
	if buf[0] != byte(testNetwork) {
		t.Errorf("payload[0] = 0x%02x, want network 0x%02x", buf[0], byte(testNetwork))
	}
	if buf[1] != 0 {
		t.Errorf("payload[1] = %d, want transfer tag 0", buf[1])
	}
}

func TestPrintedAddress_BufferTooSmall(t *testing.T) {
	h, err := CreateAddress(address.Transfer)
	if err != nil {
		t.Fatalf("CreateAddress() error: %v", err)
	}
	defer DestroyAddress(h)

	_, err = PrintedAddress(h, testNetwork, make([]byte, 10))
	var bufErr *BufferTooSmallError
	if !errors.As(err, &bufErr) {
		t.Fatalf("PrintedAddress(10-byte buf) = %v, want *BufferTooSmallError", err)
	}
	if bufErr.Required < PrintedAddressBufSize {
		t.Errorf("Required = %d, want >= %d", bufErr.Required, PrintedAddressBufSize)
	}
	if CodeOf(err) != CodeCapacity {
		t.Errorf("CodeOf() = %v, want capacity", CodeOf(err))
	}
}

func TestDestroyAddress_DoubleDestroy(t *testing.T) {
	h, err := CreateAddress(address.Staking)
	if err != nil {
		t.Fatalf("CreateAddress() error: %v", err)
	}
	if err := DestroyAddress(h); err != nil {
		t.Fatalf("first destroy error: %v", err)
	}
	err = DestroyAddress(h)
	if !errors.Is(err, handle.ErrInvalidHandle) {
		t.Fatalf("second destroy = %v, want ErrInvalidHandle", err)
	}
	if CodeOf(err) != CodeInvalidHandle {
		t.Errorf("CodeOf() = %v, want invalid-handle", CodeOf(err))
	}
	// The destroyed handle is dead for every operation.
	if _, err := ExportPrivateKey(h, make([]byte, 32)); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("ExportPrivateKey(destroyed) = %v, want ErrInvalidHandle", err)
	}
}

func TestAddressRestore_RoundTrip(t *testing.T) {
	orig, err := CreateAddress(address.Staking)
	if err != nil {
		t.Fatalf("CreateAddress() error: %v", err)
	}
	defer DestroyAddress(orig)

	secret := make([]byte, 32)
	if _, err := ExportPrivateKey(orig, secret); err != nil {
		t.Fatalf("ExportPrivateKey() error: %v", err)
	}

	restored, err := RestoreAddress(address.Staking, secret)
	if err != nil {
		t.Fatalf("RestoreAddress() error: %v", err)
	}
	defer DestroyAddress(restored)

	a := make([]byte, 64)
	b := make([]byte, 64)
	na, _ := ExtractRawAddress(orig, a)
	nb, _ := ExtractRawAddress(restored, b)
	if !bytes.Equal(a[:na], b[:nb]) {
		t.Error("restored address differs from original")
	}
}

func TestHDWallet_MnemonicRoundTrip(t *testing.T) {
	mnemonicBuf := make([]byte, MnemonicBufSize)
	w1, n, err := CreateHDWallet(mnemonicBuf)
	if err != nil {
		t.Fatalf("CreateHDWallet() error: %v", err)
	}
	defer DestroyHDWallet(w1)
	mnemonic := string(mnemonicBuf[:n])
	if words := len(strings.Fields(mnemonic)); words != 24 {
		t.Fatalf("mnemonic has %d words, want 24", words)
	}

	w2, err := RestoreHDWallet(mnemonic)
	if err != nil {
		t.Fatalf("RestoreHDWallet() error: %v", err)
	}
	defer DestroyHDWallet(w2)

	a1, err := WalletTransferAddress(w1, testNetwork, 3)
	if err != nil {
		t.Fatalf("WalletTransferAddress() error: %v", err)
	}
	defer DestroyAddress(a1)
	a2, err := WalletTransferAddress(w2, testNetwork, 3)
	if err != nil {
		t.Fatalf("WalletTransferAddress() error: %v", err)
	}
	defer DestroyAddress(a2)

	if printedTransfer(t, a1) != printedTransfer(t, a2) {
		t.Error("restored wallet derives a different address")
	}
}

func TestCreateHDWallet_BufferTooSmall(t *testing.T) {
	before := LiveHandles()
	_, _, err := CreateHDWallet(make([]byte, 16))
	if CodeOf(err) != CodeCapacity {
		t.Fatalf("CreateHDWallet(16-byte buf) code = %v, want capacity", CodeOf(err))
	}
	if LiveHandles() != before {
		t.Error("failed create leaked a handle")
	}
}

func TestDepositTx_RejectsOutputs(t *testing.T) {
	staking, err := CreateAddress(address.Staking)
	if err != nil {
		t.Fatalf("CreateAddress() error: %v", err)
	}
	defer DestroyAddress(staking)
	printed := make([]byte, PrintedAddressBufSize)
	n, err := PrintedAddress(staking, testNetwork, printed)
	if err != nil {
		t.Fatalf("PrintedAddress() error: %v", err)
	}

	h, err := CreateDepositTx(testNetwork, string(printed[:n]))
	if err != nil {
		t.Fatalf("CreateDepositTx() error: %v", err)
	}
	defer DestroyDepositTx(h)

	err = DepositTxAddOutput(h, "dcro1anything", 10)
	if CodeOf(err) != CodeState {
		t.Errorf("DepositTxAddOutput() code = %v, want state", CodeOf(err))
	}
}

func TestFeeHandle(t *testing.T) {
	h, err := CreateLinearFee("1.1", "0.005")
	if err != nil {
		t.Fatalf("CreateLinearFee() error: %v", err)
	}
	defer DestroyLinearFee(h)

	plain, err := FeeEstimate(h, 1000)
	if err != nil {
		t.Fatalf("FeeEstimate() error: %v", err)
	}
	encrypted, err := FeeEstimateAfterEncrypt(h, 1000)
	if err != nil {
		t.Fatalf("FeeEstimateAfterEncrypt() error: %v", err)
	}
	if encrypted < plain {
		t.Errorf("after-encrypt estimate %d < plain %d", encrypted, plain)
	}

	if _, err := CreateLinearFee("1.2345", "0.1"); CodeOf(err) != CodeValidation {
		t.Error("4 fractional digits should fail validation")
	}
}

func TestBuildUnbondTx_EmbedsNetworkAndTag(t *testing.T) {
	from, err := CreateAddress(address.Staking)
	if err != nil {
		t.Fatalf("CreateAddress() error: %v", err)
	}
	defer DestroyAddress(from)

	buf := make([]byte, FinalizedTxBufSize)
	n, err := BuildUnbondTx(from, testNetwork, 7, "0x1ad06eef15492a9a1ed0cfac21a1303198db8840", 100, buf)
	if err != nil {
		t.Fatalf("BuildUnbondTx() error: %v", err)
	}
	if buf[0] != byte(testNetwork) || buf[1] != 2 {
		t.Errorf("header = %x, want network 0x%02x tag 2", buf[:2], byte(testNetwork))
	}
	if n < 2+8+20+8+64+33 {
		t.Errorf("payload %d bytes, shorter than header+body+witness", n)
	}
}

func newRPCServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(response)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func TestJSONRPCContext(t *testing.T) {
	srv := newRPCServer(t, `{"jsonrpc":"2.0","result":{"nonce":12,"bonded":500,"unbonded":0,"unbonded_from":0},"id":1}`)
	defer srv.Close()

	h, err := CreateJSONRPCContext(t.TempDir(), srv.URL, testNetwork, []byte("pw"), nil)
	if err != nil {
		t.Fatalf("CreateJSONRPCContext() error: %v", err)
	}

	state, err := GetStakedState(h, "0x1ad06eef15492a9a1ed0cfac21a1303198db8840")
	if err != nil {
		t.Fatalf("GetStakedState() error: %v", err)
	}
	if state.Nonce != 12 {
		t.Errorf("Nonce = %d, want 12", state.Nonce)
	}

	resp := make([]byte, RPCResponseBufSize)
	n, err := RunJSONRPC(h, []byte(`{"jsonrpc":"2.0","method":"staking_state","params":[],"id":1}`), resp)
	if err != nil {
		t.Fatalf("RunJSONRPC() error: %v", err)
	}
	if !strings.Contains(string(resp[:n]), `"nonce":12`) {
		t.Errorf("response %q missing result", resp[:n])
	}

	secret := []byte("exported-key-material")
	if err := StoreContextValue(h, "wallet/primary", secret); err != nil {
		t.Fatalf("StoreContextValue() error: %v", err)
	}
	out := make([]byte, 64)
	n, err = LoadContextValue(h, "wallet/primary", out)
	if err != nil {
		t.Fatalf("LoadContextValue() error: %v", err)
	}
	if !bytes.Equal(out[:n], secret) {
		t.Errorf("LoadContextValue() = %q, want %q", out[:n], secret)
	}

	if err := DestroyJSONRPCContext(h); err != nil {
		t.Fatalf("DestroyJSONRPCContext() error: %v", err)
	}
	if err := BroadcastTx(h, []byte{1}); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("BroadcastTx(destroyed) = %v, want ErrInvalidHandle", err)
	}
}

func TestJSONRPCCall_OneShot(t *testing.T) {
	srv := newRPCServer(t, `{"jsonrpc":"2.0","result":"ok","id":1}`)
	defer srv.Close()

	resp := make([]byte, RPCResponseBufSize)
	n, err := JSONRPCCall(srv.URL, []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`), resp)
	if err != nil {
		t.Fatalf("JSONRPCCall() error: %v", err)
	}
	if !strings.Contains(string(resp[:n]), "ok") {
		t.Errorf("response = %q, want ok result", resp[:n])
	}
}

func TestCodeOf_Transport(t *testing.T) {
	h, err := CreateJSONRPCContext("", "http://127.0.0.1:1", testNetwork, nil, nil)
	if err != nil {
		t.Fatalf("CreateJSONRPCContext() error: %v", err)
	}
	defer DestroyJSONRPCContext(h)

	err = BroadcastTx(h, []byte{1, 2, 3})
	if CodeOf(err) != CodeTransport {
		t.Errorf("CodeOf(connection refused) = %v, want transport", CodeOf(err))
	}
}

func TestKindMismatch(t *testing.T) {
	feeHandle, err := CreateLinearFee("1.0", "0.1")
	if err != nil {
		t.Fatalf("CreateLinearFee() error: %v", err)
	}
	defer DestroyLinearFee(feeHandle)

	// A fee handle is not an address handle.
	if _, err := ExportPrivateKey(feeHandle, make([]byte, 32)); !errors.Is(err, handle.ErrInvalidHandle) {
		t.Errorf("ExportPrivateKey(fee handle) = %v, want ErrInvalidHandle", err)
	}
}
