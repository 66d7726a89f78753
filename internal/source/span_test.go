package source

import "testing"

func TestSpanValid(t *testing.T) {
	var zero Span
	if zero.Valid() {
		t.Fatal("zero Span should not be valid")
	}
	s := Span{File: 1, Start: 0, End: 4}
	if !s.Valid() {
		t.Fatal("non-zero Span should be valid")
	}
}

func TestSpanString(t *testing.T) {
	s := Span{File: 2, Start: 10, End: 20}
	if got, want := s.String(), "2:10-20"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
