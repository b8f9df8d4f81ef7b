package handle

import (
	"errors"
	"sync"
	"testing"
)

func TestTable_PutGetDestroy(t *testing.T) {
	tbl := NewTable()

	h := tbl.Put(KindTx, "payload")
	got, err := tbl.Get(h, KindTx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "payload" {
		t.Errorf("Get() = %v, want payload", got)
	}

	obj, err := tbl.Destroy(h, KindTx)
	if err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}
	if obj != "payload" {
		t.Errorf("Destroy() returned %v, want payload", obj)
	}
	if tbl.Live() != 0 {
		t.Errorf("Live() = %d, want 0", tbl.Live())
	}
}

func TestTable_UseAfterDestroy(t *testing.T) {
	tbl := NewTable()
	h := tbl.Put(KindAddress, 1)
	if _, err := tbl.Destroy(h, KindAddress); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}

	if _, err := tbl.Get(h, KindAddress); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Get() after destroy = %v, want ErrInvalidHandle", err)
	}
	if _, err := tbl.Destroy(h, KindAddress); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("double Destroy() = %v, want ErrInvalidHandle", err)
	}
}

func TestTable_StaleGenerationAfterSlotReuse(t *testing.T) {
	tbl := NewTable()
	h1 := tbl.Put(KindFee, "first")
	if _, err := tbl.Destroy(h1, KindFee); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}

	// The slot is recycled, but the old handle's generation is stale.
	h2 := tbl.Put(KindFee, "second")
	if h1 == h2 {
		t.Fatal("recycled slot should issue a distinct handle")
	}
	if _, err := tbl.Get(h1, KindFee); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("stale handle Get() = %v, want ErrInvalidHandle", err)
	}
	got, err := tbl.Get(h2, KindFee)
	if err != nil || got != "second" {
		t.Errorf("Get(h2) = %v, %v; want second, nil", got, err)
	}
}

func TestTable_KindMismatch(t *testing.T) {
	tbl := NewTable()
	h := tbl.Put(KindWallet, 1)
	if _, err := tbl.Get(h, KindTx); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("wrong-kind Get() = %v, want ErrInvalidHandle", err)
	}
	// The object stays live after a failed access.
	if _, err := tbl.Get(h, KindWallet); err != nil {
		t.Errorf("Get() after mismatch error: %v", err)
	}
}

func TestTable_NeverIssuedAndZero(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Get(Handle(0), KindTx); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("zero handle = %v, want ErrInvalidHandle", err)
	}
	if _, err := tbl.Get(Handle(12345), KindTx); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("fabricated handle = %v, want ErrInvalidHandle", err)
	}
}

func TestTable_ConcurrentDistinctHandles(t *testing.T) {
	tbl := NewTable()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := tbl.Put(KindAddress, i)
			got, err := tbl.Get(h, KindAddress)
			if err != nil || got != i {
				t.Errorf("Get() = %v, %v; want %d, nil", got, err, i)
			}
			if _, err := tbl.Destroy(h, KindAddress); err != nil {
				t.Errorf("Destroy() error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if tbl.Live() != 0 {
		t.Errorf("Live() = %d, want 0", tbl.Live())
	}
}
