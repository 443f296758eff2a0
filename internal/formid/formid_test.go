package formid_test

import (
	"errors"
	"testing"

	"companionforge/internal/faults"
	"companionforge/internal/formid"
)

func TestAllocatorIssuesMonotonicIDs(t *testing.T) {
	alloc, err := formid.NewAllocator("Test.esp")
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	seen := make(map[formid.ID]struct{})
	var last uint32
	for i := 0; i < 100; i++ {
		id, err := alloc.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("id %s issued twice", id)
		}
		seen[id] = struct{}{}
		if i > 0 && id.Local <= last {
			t.Fatalf("ids not increasing: %06X after %06X", id.Local, last)
		}
		last = id.Local
		if id.Plugin != "Test.esp" {
			t.Fatalf("unexpected plugin %q", id.Plugin)
		}
	}
	if alloc.Issued() != 100 {
		t.Fatalf("expected 100 issued, got %d", alloc.Issued())
	}
}

func TestAllocatorStartsAtFirstLocal(t *testing.T) {
	alloc, _ := formid.NewAllocator("Test.esp")
	id, _ := alloc.Next()
	if id.Local != formid.FirstLocal {
		t.Fatalf("expected first local %06X, got %06X", formid.FirstLocal, id.Local)
	}
}

func TestAllocatorExhaustion(t *testing.T) {
	alloc, err := formid.NewAllocatorRange("Small.esp", 0x10, 0x11)
	if err != nil {
		t.Fatalf("NewAllocatorRange: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := alloc.Next(); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if _, ok := alloc.Peek(); ok {
		t.Fatal("expected Peek to report exhaustion")
	}
	_, err = alloc.Next()
	if !errors.Is(err, faults.ErrNamespaceExhausted) {
		t.Fatalf("expected namespace exhausted, got %v", err)
	}
}

func TestAllocatorRejectsBadRange(t *testing.T) {
	if _, err := formid.NewAllocatorRange("", 1, 2); err == nil {
		t.Fatal("expected error for empty plugin")
	}
	if _, err := formid.NewAllocatorRange("A.esp", 5, 4); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if _, err := formid.NewAllocatorRange("A.esp", 1, formid.MaxLocal+1); err == nil {
		t.Fatal("expected error for range beyond 24 bits")
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := formid.New("Fallout4.esm", 0x013746)
	if got := id.String(); got != "013746:Fallout4.esm" {
		t.Fatalf("unexpected string %q", got)
	}
	parsed, err := formid.Parse(id.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %v vs %v", parsed, id)
	}
	if id.Hex() != "00013746" {
		t.Fatalf("unexpected hex %q", id.Hex())
	}
	for _, bad := range []string{"", "013746", "zz:Fallout4.esm", "1000000:A.esp", "0800:"} {
		if _, err := formid.Parse(bad); err == nil {
			t.Fatalf("expected parse error for %q", bad)
		}
	}
}
