package hirtypes

import (
	"path/filepath"
	"testing"
)

func TestSliceCacheMemory(t *testing.T) {
	c := NewSliceCache()
	key := Key("__mod__fn", Bindings{{Name: "N", Value: 8}})

	if _, ok := c.Get(key, 1); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Put(key, 1, SliceSpan{Start: 2, Width: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	span, ok := c.Get(key, 1)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if span != (SliceSpan{Start: 2, Width: 4}) {
		t.Fatalf("got %+v", span)
	}
}

func TestSliceCacheDiskRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "slices")
	c, err := NewSliceCacheWithDisk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := Key("__mod__fn", Bindings{{Name: "N", Value: 16}})
	if err := c.Put(key, 7, SliceSpan{Start: 1, Width: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fresh cache instance pointed at the same directory must observe
	// the entry written by the first one.
	c2, err := NewSliceCacheWithDisk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	span, ok := c2.Get(key, 7)
	if !ok {
		t.Fatal("expected disk hit")
	}
	if span != (SliceSpan{Start: 1, Width: 3}) {
		t.Fatalf("got %+v", span)
	}
}

func TestKeyOrderingStable(t *testing.T) {
	a := Key("__m__f", Bindings{{Name: "B", Value: 1}, {Name: "A", Value: 2}})
	b := Key("__m__f", Bindings{{Name: "A", Value: 2}, {Name: "B", Value: 1}})
	if a != b {
		t.Fatalf("expected order-independent key, got %q vs %q", a, b)
	}
}
