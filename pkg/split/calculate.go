package split

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/hirewell/revshare/pkg/money"
)

// Option configures a calculation.
type Option func(*options)

type options struct {
	emptyTierPolicy EmptyTierPolicy
}

// WithEmptyTierPolicy sets the empty tier policy used when a tiered
// configuration does not name one. The default is RejectEmptyTiers.
func WithEmptyTierPolicy(p EmptyTierPolicy) Option {
	return func(o *options) {
		if p.Valid() {
			o.emptyTierPolicy = p
		}
	}
}

// Calculate divides totalFee among contributors according to model and
// cfg. The returned shares are in contributor order, omit contributors
// whose share is zero, and always satisfy sum(Amount) == totalFee and
// sum(Percentage) == money.Hundred.
func Calculate(model Model, cfg Config, contributors []Contributor, totalFee money.Money, opts ...Option) ([]Share, error) {
	o := options{emptyTierPolicy: RejectEmptyTiers}
	for _, opt := range opts {
		opt(&o)
	}

	verrs, err := Validate(model, cfg)
	if err != nil {
		return nil, err
	}
	if verrs != nil {
		return nil, verrs
	}
	if verrs := checkInput(contributors, totalFee); verrs != nil {
		return nil, verrs
	}
	if len(contributors) == 0 {
		return nil, &InsufficientContributorsError{Reason: "no eligible contributors"}
	}

	var (
		shares  []*big.Rat
		amounts []int64
	)
	if model == Hybrid {
		shares, amounts, err = hybridShares(cfg, contributors, totalFee.Units(), o)
		if err != nil {
			return nil, err
		}
	} else {
		shares, err = exactShares(model, cfg, contributors, o)
		if err != nil {
			return nil, err
		}
		amounts, err = allocate(totalFee.Units(), shares)
		if err != nil {
			return nil, err
		}
	}

	percents, err := allocate(money.Hundred.BasisPoints(), shares)
	if err != nil {
		return nil, err
	}

	out := make([]Share, 0, len(contributors))
	for i, c := range contributors {
		if shares[i].Sign() == 0 {
			continue
		}
		out = append(out, Share{
			RecruiterID: c.RecruiterID,
			Percentage:  money.Percent(percents[i]),
			Amount:      money.Money(amounts[i]),
		})
	}

	if err := verify(out, totalFee); err != nil {
		return nil, err
	}
	return out, nil
}

// StageCreditWeight folds per-stage credits into a contribution weight
// using the stage weights of an individual credit configuration. Stages
// without a configured weight count for nothing. A weight that does not
// fit in an int64 is reported as a ValidationErrors on stage_credits.
func StageCreditWeight(cfg Config, credits map[string]int64) (int64, error) {
	var w int64
	for _, sw := range cfg.StageWeights {
		p, ok := MulWeight(sw.Weight, credits[sw.Stage])
		if ok {
			w, ok = AddWeight(w, p)
		}
		if !ok {
			return 0, ValidationErrors{{
				Field:   "stage_credits",
				Message: fmt.Sprintf("weighted credits for stage %q overflow", sw.Stage),
			}}
		}
	}
	return w, nil
}

// AddWeight adds two non-negative weights. It reports false on overflow.
func AddWeight(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// MulWeight multiplies two non-negative weights. It reports false on
// overflow.
func MulWeight(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

func checkInput(contributors []Contributor, totalFee money.Money) ValidationErrors {
	var errs ValidationErrors
	if totalFee < 0 {
		errs.add("total_fee", "must not be negative")
	}
	seen := make(map[string]int, len(contributors))
	for i, c := range contributors {
		field := fmt.Sprintf("contributors[%d]", i)
		if c.RecruiterID == "" {
			errs.add(field+".recruiter_id", "is required")
		} else if j, ok := seen[c.RecruiterID]; ok {
			errs.add(field+".recruiter_id", "duplicates contributors[%d]", j)
		} else {
			seen[c.RecruiterID] = i
		}
		if c.MemberRole != "" && !c.MemberRole.Valid() {
			errs.add(field+".member_role", "unknown membership role %q", c.MemberRole)
		}
		if c.ContributionRole != "" && !c.ContributionRole.Valid() {
			errs.add(field+".contribution_role", "unknown contribution role %q", c.ContributionRole)
		}
		if c.Weight < 0 {
			errs.add(field+".weight", "must not be negative")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func exactShares(model Model, cfg Config, contributors []Contributor, o options) ([]*big.Rat, error) {
	switch model {
	case FlatSplit:
		return flatShares(cfg, contributors)
	case TieredSplit:
		return tieredShares(cfg, contributors, o)
	case IndividualCredit:
		return creditShares(contributors)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

func zeroShares(n int) []*big.Rat {
	s := make([]*big.Rat, n)
	for i := range s {
		s[i] = new(big.Rat)
	}
	return s
}

func percentRat(p money.Percent) *big.Rat {
	return big.NewRat(p.BasisPoints(), money.Hundred.BasisPoints())
}

func flatShares(cfg Config, contributors []Contributor) ([]*big.Rat, error) {
	shares := zeroShares(len(contributors))
	index := make(map[string]int, len(contributors))
	byRole := make(map[MemberRole][]int)
	for i, c := range contributors {
		index[c.RecruiterID] = i
		byRole[c.MemberRole] = append(byRole[c.MemberRole], i)
	}

	var unmatched []string
	for _, e := range cfg.Entries {
		pct := percentRat(e.Percentage)
		if e.Recruiter != "" {
			i, ok := index[e.Recruiter]
			if !ok {
				if e.Percentage > 0 {
					unmatched = append(unmatched, "recruiter "+e.Recruiter)
				}
				continue
			}
			shares[i].Add(shares[i], pct)
			continue
		}

		holders := byRole[e.Role]
		if len(holders) == 0 {
			if e.Percentage > 0 {
				unmatched = append(unmatched, "role "+string(e.Role))
			}
			continue
		}
		each := new(big.Rat).Quo(pct, big.NewRat(int64(len(holders)), 1))
		for _, i := range holders {
			shares[i].Add(shares[i], each)
		}
	}

	if len(unmatched) > 0 {
		return nil, &ConfigurationMismatchError{
			Unmatched: unmatched,
			Reason:    "no active contributor for",
		}
	}
	return shares, nil
}

func tieredShares(cfg Config, contributors []Contributor, o options) ([]*big.Rat, error) {
	policy := cfg.EmptyTierPolicy
	if policy == "" {
		policy = o.emptyTierPolicy
	}

	mapping := make(map[MemberRole]ContributionRole, len(DefaultRoleMapping)+len(cfg.RoleMapping))
	for k, v := range DefaultRoleMapping {
		mapping[k] = v
	}
	for k, v := range cfg.RoleMapping {
		mapping[k] = v
	}

	tierOf := make(map[ContributionRole]int, len(cfg.Tiers))
	for t, tier := range cfg.Tiers {
		tierOf[tier.Role] = t
	}

	occupants := make([][]int, len(cfg.Tiers))
	for i, c := range contributors {
		role := c.ContributionRole
		if role == "" {
			role = mapping[c.MemberRole]
		}
		if t, ok := tierOf[role]; ok {
			occupants[t] = append(occupants[t], i)
		}
	}

	var (
		empty    []string
		occupied money.Percent
	)
	for t, tier := range cfg.Tiers {
		switch {
		case len(occupants[t]) > 0:
			occupied += tier.Percentage
		case tier.Percentage > 0:
			empty = append(empty, tier.Name)
		}
	}

	if len(empty) > 0 && policy == RejectEmptyTiers {
		return nil, &ConfigurationMismatchError{
			Unmatched: empty,
			Reason:    "tiers without contributors",
		}
	}
	if occupied == 0 {
		return nil, &InsufficientContributorsError{Reason: "no contributor occupies a tier"}
	}

	// With no empty tiers occupied is 100% and each tier keeps its own
	// percentage; otherwise occupied tiers are scaled up pro rata.
	shares := zeroShares(len(contributors))
	for t, tier := range cfg.Tiers {
		if len(occupants[t]) == 0 {
			continue
		}
		each := big.NewRat(tier.Percentage.BasisPoints(), occupied.BasisPoints()*int64(len(occupants[t])))
		for _, i := range occupants[t] {
			shares[i].Add(shares[i], each)
		}
	}
	return shares, nil
}

func creditShares(contributors []Contributor) ([]*big.Rat, error) {
	weights := make([]int64, len(contributors))
	for i, c := range contributors {
		weights[i] = c.Weight
	}
	shares, err := money.Shares(weights)
	if errors.Is(err, money.ErrInvalidShares) {
		return nil, &InsufficientContributorsError{Reason: "all contribution weights are zero"}
	}
	return shares, err
}

// hybridShares splits the fee into base and credit pools, distributes
// each pool with its own model and sums the results per contributor. It
// returns the exact combined shares and the allocated amounts.
func hybridShares(cfg Config, contributors []Contributor, total int64, o options) ([]*big.Rat, []int64, error) {
	base, credit := cfg.pools()
	pools, err := allocate(total, []*big.Rat{percentRat(base), percentRat(credit)})
	if err != nil {
		return nil, nil, err
	}

	combined := zeroShares(len(contributors))
	amounts := make([]int64, len(contributors))
	add := func(pct money.Percent, pool int64, shares []*big.Rat) error {
		parts, err := allocate(pool, shares)
		if err != nil {
			return err
		}
		weight := percentRat(pct)
		for i := range contributors {
			amounts[i] += parts[i]
			combined[i].Add(combined[i], new(big.Rat).Mul(weight, shares[i]))
		}
		return nil
	}

	if base > 0 {
		shares, err := exactShares(cfg.BaseModel, *cfg.Base, contributors, o)
		if err != nil {
			return nil, nil, err
		}
		if err := add(base, pools[0], shares); err != nil {
			return nil, nil, err
		}
	}
	if credit > 0 {
		shares, err := creditShares(contributors)
		if err != nil {
			return nil, nil, err
		}
		if err := add(credit, pools[1], shares); err != nil {
			return nil, nil, err
		}
	}
	return combined, amounts, nil
}

// allocate runs the largest-remainder allocation on internally computed
// shares. Any failure means the shares were wrong, which is a defect.
func allocate(total int64, shares []*big.Rat) ([]int64, error) {
	parts, err := money.Allocate(total, shares)
	if err != nil {
		return nil, &RoundingInvariantViolation{Detail: err.Error()}
	}
	return parts, nil
}

func verify(shares []Share, totalFee money.Money) error {
	var (
		amount  money.Money
		percent money.Percent
	)
	for _, s := range shares {
		if s.Amount < 0 || s.Percentage < 0 {
			return &RoundingInvariantViolation{
				Detail: fmt.Sprintf("negative share for %s", s.RecruiterID),
			}
		}
		amount += s.Amount
		percent += s.Percentage
	}
	if amount != totalFee {
		return &RoundingInvariantViolation{
			Detail: fmt.Sprintf("amounts sum to %d, want %d", amount, totalFee),
		}
	}
	if percent != money.Hundred {
		return &RoundingInvariantViolation{
			Detail: fmt.Sprintf("percentages sum to %d basis points, want %d", percent, money.Hundred),
		}
	}
	return nil
}
