package ffi

import (
	"errors"
	"fmt"

	"github.com/cro-chain/cro-client/internal/enclave"
	"github.com/cro-chain/cro-client/internal/handle"
	"github.com/cro-chain/cro-client/internal/hdwallet"
	"github.com/cro-chain/cro-client/internal/rpcclient"
	"github.com/cro-chain/cro-client/pkg/tx"
)

// Code is the stable numeric result of a boundary call. Foreign callers
// branch on the code; the diagnostic text is for humans only.
type Code int32

const (
	CodeSuccess Code = iota
	CodeValidation
	CodeState
	CodeCrypto
	CodeTransport
	CodeCapacity
	CodeInvalidHandle
	CodeCancelled
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeValidation:
		return "validation"
	case CodeState:
		return "state"
	case CodeCrypto:
		return "crypto"
	case CodeTransport:
		return "transport"
	case CodeCapacity:
		return "capacity"
	case CodeInvalidHandle:
		return "invalid-handle"
	case CodeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Minimum caller-buffer sizes. Payload writes never truncate: a buffer
// below the documented minimum (or the actual payload size) fails with
// BufferTooSmallError carrying the required size.
const (
	PrintedAddressBufSize = 100
	FinalizedTxBufSize    = 1000
	MnemonicBufSize       = 300
	RPCResponseBufSize    = 500
)

// BufferTooSmallError reports the size a retry must supply.
type BufferTooSmallError struct {
	Required int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("buffer too small: %d bytes required", e.Required)
}

// CodeOf maps an engine error to its boundary code. Specific categories
// are checked before the catch-all: a cancelled transport call must
// report cancellation, not a generic transport failure.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}

	var bufErr *BufferTooSmallError
	var transportErr *rpcclient.TransportError
	var rpcErr *rpcclient.RPCError

	switch {
	case errors.Is(err, handle.ErrInvalidHandle):
		return CodeInvalidHandle
	case errors.Is(err, rpcclient.ErrCancelled):
		return CodeCancelled
	case errors.As(err, &bufErr):
		return CodeCapacity
	case errors.As(err, &transportErr):
		return CodeTransport
	case errors.Is(err, tx.ErrKeyMismatch):
		return CodeCrypto
	case errors.Is(err, tx.ErrIncompleteSignatures),
		errors.Is(err, tx.ErrSlotConflict),
		errors.Is(err, tx.ErrSignedInputs),
		errors.Is(err, tx.ErrDepositNoOutputs):
		return CodeState
	case errors.As(err, &rpcErr):
		// The server understood and rejected the call.
		return CodeState
	case errors.Is(err, enclave.ErrPayloadRejected):
		return CodeValidation
	case errors.Is(err, hdwallet.ErrInvalidMnemonic):
		return CodeValidation
	default:
		return CodeValidation
	}
}

// WriteDiagnostic copies the error text into the caller's diagnostic
// buffer and returns the bytes written. Diagnostics truncate silently;
// only payload buffers carry the no-truncation contract.
func WriteDiagnostic(dst []byte, err error) int {
	if err == nil {
		return 0
	}
	return copy(dst, err.Error())
}

// writePayload copies payload into dst, enforcing the documented
// minimum buffer size for the call. Fails without partial writes.
func writePayload(dst, payload []byte, minBuf int) (int, error) {
	required := len(payload)
	if minBuf > required {
		required = minBuf
	}
	if len(dst) < required {
		return 0, &BufferTooSmallError{Required: required}
	}
	return copy(dst, payload), nil
}
