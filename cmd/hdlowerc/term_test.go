package main

import "testing"

func TestResolveColor(t *testing.T) {
	cases := []struct {
		flag string
		want bool
	}{
		{"always", true},
		{"never", false},
	}
	for _, tc := range cases {
		if got := resolveColor(tc.flag, nil); got != tc.want {
			t.Fatalf("resolveColor(%q) = %v, want %v", tc.flag, got, tc.want)
		}
	}
}
