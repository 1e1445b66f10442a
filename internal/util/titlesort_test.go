package util

import (
	"sort"
	"testing"
)

func TestTitleLess(t *testing.T) {
	testCases := []struct {
		a, b string
		want bool
	}{
		{"Mock Series 2", "Mock Series 10", true},
		{"Mock Series 10", "Mock Series 2", false},
		{"20th Century Boys", "Akira", true},
		{"Éclair", "Dorohedoro", false},
		{"éclair", "Eclair 2", true},
		{"berserk", "Berserk", false},
		{"Berserk", "berserk", false},
	}
	for _, tc := range testCases {
		if got := TitleLess(tc.a, tc.b); got != tc.want {
			t.Errorf("TitleLess(%q, %q) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTitleLess_SortsCollection(t *testing.T) {
	titles := []string{"Mock Series 10", "Akira", "Mock Series 9", "mock series 1"}
	sort.Slice(titles, func(i, j int) bool { return TitleLess(titles[i], titles[j]) })

	want := []string{"Akira", "mock series 1", "Mock Series 9", "Mock Series 10"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("sorted = %v; want %v", titles, want)
		}
	}
}
