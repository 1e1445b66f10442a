package util

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"Naruto", "naruto"},
		{" Naruto ", "naruto"},
		{"\tONE PIECE\n", "one piece"},
		{"Pokémon", "pokemon"},
		{"Ça marche", "ca marche"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range testCases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestSameSet(t *testing.T) {
	testCases := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{nil, []string{}, true},
		{[]string{"Action"}, []string{"Action"}, true},
		{[]string{"Action", "Drama"}, []string{"Drama", "Action"}, true},
		{[]string{"Action", "Action"}, []string{"Action"}, true},
		{[]string{"Action"}, []string{"Drama"}, false},
		{[]string{"Action"}, []string{"Action", "Drama"}, false},
		{[]string{"Action", "Drama"}, []string{"Action"}, false},
		{[]string{"Action"}, nil, false},
	}
	for _, tc := range testCases {
		if got := SameSet(tc.a, tc.b); got != tc.want {
			t.Errorf("SameSet(%v, %v) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
