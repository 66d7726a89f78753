package lower

import (
	"testing"

	"hdlower/internal/hirtypes"
)

// TestMangle mirrors spec.md §8: Mangle(mod="a.b", fn="foo", free={N,M},
// bindings={N=4,M=8}) -> "__a_b__foo__4_8".
func TestMangle(t *testing.T) {
	got, err := Mangle("foo", []string{"N", "M"}, "a.b", hirtypes.Bindings{
		{Name: "N", Value: 4},
		{Name: "M", Value: 8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "__a_b__foo__4_8" {
		t.Fatalf("got %q, want __a_b__foo__4_8", got)
	}
}

func TestMangleNoBindings(t *testing.T) {
	got, err := Mangle("foo", nil, "mod", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "__mod__foo" {
		t.Fatalf("got %q, want __mod__foo", got)
	}
}

func TestMangleUnboundParametric(t *testing.T) {
	_, err := Mangle("foo", []string{"N"}, "mod", nil)
	if err == nil {
		t.Fatal("expected error for unbound parametric")
	}
}

func TestMangleOrderIndependentOfFreeKeysOrder(t *testing.T) {
	bindings := hirtypes.Bindings{{Name: "N", Value: 4}, {Name: "M", Value: 8}}
	a, err := Mangle("foo", []string{"N", "M"}, "mod", bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Mangle("foo", []string{"M", "N"}, "mod", bindings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected deterministic order regardless of input order: %q vs %q", a, b)
	}
}
