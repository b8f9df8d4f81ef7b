// Package handle implements the opaque-handle table backing the foreign
// call boundary. Every engine-owned object is registered here and
// referenced by callers only through a generation-checked identifier,
// so a stale or fabricated handle fails cleanly instead of touching
// freed memory.
package handle

import (
	"errors"
	"sync"
)

// ErrInvalidHandle is returned for never-issued, destroyed, or
// wrong-kind handles, including double destroys.
var ErrInvalidHandle = errors.New("invalid handle")

// Kind tags the object class a handle refers to.
type Kind uint8

const (
	KindAddress Kind = iota + 1
	KindWallet
	KindTx
	KindDepositTx
	KindFee
	KindRPC
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindWallet:
		return "wallet"
	case KindTx:
		return "tx"
	case KindDepositTx:
		return "deposit-tx"
	case KindFee:
		return "fee"
	case KindRPC:
		return "rpc"
	default:
		return "unknown"
	}
}

// Handle is the opaque identifier handed to foreign callers:
// slot index in the low 32 bits, generation in the high 32.
// Zero is never a valid handle.
type Handle uint64

func makeHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) split() (index, generation uint32) {
	return uint32(h), uint32(h >> 32)
}

// slot is one arena entry. The generation increments on every destroy,
// invalidating all previously issued handles for the slot.
type slot struct {
	generation uint32
	kind       Kind
	obj        any
	live       bool
}

// Table maps live objects to handles. The invariant is a bijection:
// every valid handle names exactly one live object and vice versa.
// Safe for concurrent use across distinct handles.
type Table struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	// Slot 0 is reserved so the zero Handle is always invalid.
	return &Table{slots: make([]slot, 1)}
}

// Put registers an object and returns its handle.
func (t *Table) Put(kind Kind, obj any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.kind = kind
	s.obj = obj
	s.live = true
	return makeHandle(idx, s.generation)
}

// Get returns the live object a handle refers to, checking both the
// generation and the expected kind.
func (t *Table) Get(h Handle, kind Kind) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	if s.kind != kind {
		return nil, ErrInvalidHandle
	}
	return s.obj, nil
}

// Destroy removes the object and invalidates the handle for all future
// use. Destroying an already-destroyed handle reports ErrInvalidHandle.
// The removed object is returned so the caller can release its resources.
func (t *Table) Destroy(h Handle, kind Kind) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return nil, err
	}
	if s.kind != kind {
		return nil, ErrInvalidHandle
	}
	obj := s.obj
	s.obj = nil
	s.live = false
	s.generation++
	idx, _ := h.split()
	t.free = append(t.free, idx)
	return obj, nil
}

// Live returns the number of currently registered objects.
func (t *Table) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for i := range t.slots {
		if t.slots[i].live {
			n++
		}
	}
	return n
}

func (t *Table) lookup(h Handle) (*slot, error) {
	idx, gen := h.split()
	if idx == 0 || int(idx) >= len(t.slots) {
		return nil, ErrInvalidHandle
	}
	s := &t.slots[idx]
	if !s.live || s.generation != gen {
		return nil, ErrInvalidHandle
	}
	return s, nil
}
