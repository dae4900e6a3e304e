package money

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	// ErrInvalidShares is returned when the shares passed to Allocate are
	// negative or do not add up to exactly one.
	ErrInvalidShares = errors.New("shares must be non-negative and sum to one")

	// ErrNegativeTotal is returned when allocating a negative total.
	ErrNegativeTotal = errors.New("total must not be negative")
)

// Allocate divides total units among the given exact shares using the
// largest-remainder method. Every part receives floor(total*share); the
// leftover units are handed out one at a time to the parts with the largest
// fractional remainder, ties going to the earlier part. The returned parts
// always sum to total.
func Allocate(total int64, shares []*big.Rat) ([]int64, error) {
	if total < 0 {
		return nil, ErrNegativeTotal
	}
	if len(shares) == 0 {
		return nil, ErrInvalidShares
	}

	sum := new(big.Rat)
	for _, s := range shares {
		if s == nil || s.Sign() < 0 {
			return nil, ErrInvalidShares
		}
		sum.Add(sum, s)
	}
	if sum.Cmp(big.NewRat(1, 1)) != 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidShares, sum.RatString())
	}

	t := new(big.Int).SetInt64(total)
	parts := make([]int64, len(shares))
	rems := make([]*big.Rat, len(shares))
	var assigned int64
	for i, s := range shares {
		num := new(big.Int).Mul(t, s.Num())
		q, r := new(big.Int).QuoRem(num, s.Denom(), new(big.Int))
		parts[i] = q.Int64()
		rems[i] = new(big.Rat).SetFrac(r, s.Denom())
		assigned += parts[i]
	}

	leftover := total - assigned
	if leftover < 0 || leftover >= int64(len(shares)) {
		return nil, fmt.Errorf("leftover %d out of range for %d parts", leftover, len(shares))
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]].Cmp(rems[order[b]]) > 0
	})
	for i := int64(0); i < leftover; i++ {
		parts[order[i]]++
	}

	return parts, nil
}

// Shares turns non-negative integer weights into exact shares of one.
// It returns ErrInvalidShares when every weight is zero. The total is
// summed exactly, so weights near math.MaxInt64 are fine.
func Shares(weights []int64) ([]*big.Rat, error) {
	total := new(big.Int)
	for _, w := range weights {
		if w < 0 {
			return nil, ErrInvalidShares
		}
		total.Add(total, big.NewInt(w))
	}
	if total.Sign() == 0 {
		return nil, ErrInvalidShares
	}
	shares := make([]*big.Rat, len(weights))
	for i, w := range weights {
		shares[i] = new(big.Rat).SetFrac(big.NewInt(w), total)
	}
	return shares, nil
}
