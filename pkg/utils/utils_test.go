package utils

import (
	"testing"

	"github.com/matryer/is"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"north", "north"},
		{"  north  ", "north"},
		{"north \t east", "north east"},
		{"", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			is := is.New(t)
			is.Equal(SanitizeName(c.in), c.out)
		})
	}
}

func TestValidateTeamName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"north", true},
		{"north east", true},
		{"team-1.b_2", true},
		{"", false},
		{"42", false},
		{"-north", false},
		{"north/east", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ValidateTeamName(c.name) == nil, c.ok)
		})
	}
}

func TestValidateRecruiterID(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{"alice", true},
		{"alice@example.com", true},
		{"r-42_b.c", true},
		{"", false},
		{"alice smith", false},
		{"alice/bob", false},
	}
	for _, c := range cases {
		t.Run(c.id, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ValidateRecruiterID(c.id) == nil, c.ok)
		})
	}
}
