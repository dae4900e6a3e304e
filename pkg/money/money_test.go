package money

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
		err  bool
	}{
		{"500", 50000, false},
		{"500.00", 50000, false},
		{"500.5", 50050, false},
		{"1,234.56", 123456, false},
		{".99", 99, false},
		{"-3.10", -310, false},
		{"1.234", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{".", 0, true},
	}
	for _, c := range cases {
		got, err := ParseMoney(c.in)
		if c.err {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseMoney(%q) => %v, want ErrInvalidAmount", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("ParseMoney(%q) => %d, %v, want %d", c.in, got, err, c.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	is := is.New(t)
	is.Equal(Money(50000).String(), "500.00")
	is.Equal(Money(123456789).String(), "1,234,567.89")
	is.Equal(Money(5).String(), "0.05")
	is.Equal(Money(-310).String(), "-3.10")
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		in   string
		want Percent
		err  bool
	}{
		{"100", Hundred, false},
		{"60", 6000, false},
		{"12.5", 1250, false},
		{"33.33%", 3333, false},
		{"33.333", 0, true},
		{"x", 0, true},
	}
	for _, c := range cases {
		got, err := ParsePercent(c.in)
		if c.err {
			if !errors.Is(err, ErrInvalidPercent) {
				t.Errorf("ParsePercent(%q) => %v, want ErrInvalidPercent", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("ParsePercent(%q) => %d, %v, want %d", c.in, got, err, c.want)
		}
	}
}

func TestPercentEncoding(t *testing.T) {
	is := is.New(t)

	var v struct {
		A Percent `json:"a" yaml:"a"`
		B Percent `json:"b" yaml:"b"`
	}
	is.NoErr(json.Unmarshal([]byte(`{"a": 12.5, "b": "33.33"}`), &v))
	is.Equal(v.A, Percent(1250))
	is.Equal(v.B, Percent(3333))

	out, err := json.Marshal(v)
	is.NoErr(err)
	is.Equal(string(out), `{"a":12.5,"b":33.33}`)

	is.NoErr(yaml.Unmarshal([]byte("a: 40\nb: 7.05\n"), &v))
	is.Equal(v.A, Percent(4000))
	is.Equal(v.B, Percent(705))
}

func TestAllocateThirds(t *testing.T) {
	is := is.New(t)
	third := big.NewRat(1, 3)
	parts, err := Allocate(100, []*big.Rat{third, third, third})
	is.NoErr(err)
	is.Equal(parts, []int64{34, 33, 33})
}

func TestAllocateLargestRemainder(t *testing.T) {
	is := is.New(t)
	// 10 * 0.15 = 1.5, 10 * 0.35 = 3.5, 10 * 0.5 = 5.0
	shares := []*big.Rat{big.NewRat(15, 100), big.NewRat(35, 100), big.NewRat(1, 2)}
	parts, err := Allocate(10, shares)
	is.NoErr(err)
	is.Equal(parts, []int64{2, 3, 5})
}

func TestAllocateSumsToTotal(t *testing.T) {
	weights := [][]int64{
		{1},
		{1, 1},
		{3, 1},
		{1, 1, 1, 1, 1, 1, 1},
		{7, 0, 13, 2},
		{999, 1},
	}
	for _, w := range weights {
		shares, err := Shares(w)
		if err != nil {
			t.Fatal(err)
		}
		for _, total := range []int64{0, 1, 2, 99, 100, 101, 50000, 123456789} {
			parts, err := Allocate(total, shares)
			if err != nil {
				t.Fatalf("Allocate(%d, %v) => %v", total, w, err)
			}
			var sum int64
			for _, p := range parts {
				sum += p
			}
			if sum != total {
				t.Errorf("Allocate(%d, %v) => %v sums to %d", total, w, parts, sum)
			}
		}
	}
}

func TestAllocateRejectsBadShares(t *testing.T) {
	is := is.New(t)
	_, err := Allocate(100, []*big.Rat{big.NewRat(1, 2)})
	is.True(errors.Is(err, ErrInvalidShares))
	_, err = Allocate(100, []*big.Rat{big.NewRat(3, 2), big.NewRat(-1, 2)})
	is.True(errors.Is(err, ErrInvalidShares))
	_, err = Allocate(100, nil)
	is.True(errors.Is(err, ErrInvalidShares))
	_, err = Allocate(-1, []*big.Rat{big.NewRat(1, 1)})
	is.True(errors.Is(err, ErrNegativeTotal))
	_, err = Shares([]int64{0, 0})
	is.True(errors.Is(err, ErrInvalidShares))
}

func TestSharesLargeWeights(t *testing.T) {
	for _, weights := range [][]int64{
		{math.MaxInt64, 1},
		{1 << 62, 1 << 62, 1 << 62, 1 << 62},
		{math.MaxInt64, math.MaxInt64},
	} {
		is := is.New(t)
		shares, err := Shares(weights)
		is.NoErr(err)
		sum := new(big.Rat)
		for _, s := range shares {
			is.True(s.Sign() >= 0)
			sum.Add(sum, s)
		}
		is.Equal(sum.Cmp(big.NewRat(1, 1)), 0) // shares sum to one
		_, err = Allocate(1000, shares)
		is.NoErr(err)
	}

	is := is.New(t)
	shares, err := Shares([]int64{1 << 62, 1 << 62, 1 << 62, 1 << 62})
	is.NoErr(err)
	parts, err := Allocate(1000, shares)
	is.NoErr(err)
	is.Equal(parts, []int64{250, 250, 250, 250})
}
