package split

import (
	"errors"
	"testing"

	"github.com/hirewell/revshare/pkg/money"
	"github.com/matryer/is"
)

func fields(errs ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateFlat(t *testing.T) {
	cases := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{"ok", flatAB(), nil},
		{"empty", Config{}, []string{"entries"}},
		{"short", Config{Entries: []FlatEntry{{Recruiter: "A", Percentage: 6000}}}, []string{"entries"}},
		{"negative", Config{Entries: []FlatEntry{
			{Recruiter: "A", Percentage: 11000},
			{Recruiter: "B", Percentage: -1000},
		}}, []string{"entries[0].percentage", "entries[1].percentage"}},
		{"duplicate", Config{Entries: []FlatEntry{
			{Recruiter: "A", Percentage: 5000},
			{Recruiter: "A", Percentage: 5000},
		}}, []string{"entries[1]"}},
		{"both refs", Config{Entries: []FlatEntry{
			{Recruiter: "A", Role: OwnerRole, Percentage: 10000},
		}}, []string{"entries[0]", "entries"}},
		{"bad role", Config{Entries: []FlatEntry{
			{Role: "intern", Percentage: 10000},
		}}, []string{"entries[0].role"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := is.New(t)
			errs, err := Validate(FlatSplit, c.cfg)
			is.NoErr(err)
			is.Equal(fields(errs), fieldsOrNil(c.fields))
		})
	}
}

func fieldsOrNil(f []string) []string {
	if f == nil {
		return []string{}
	}
	return f
}

func TestValidateTiered(t *testing.T) {
	is := is.New(t)

	errs, err := Validate(TieredSplit, threeTiers())
	is.NoErr(err)
	is.Equal(len(errs), 0)

	cfg := Config{
		Tiers: []Tier{
			{Name: "a", Role: Sourcer, Percentage: 5000},
			{Name: "a", Role: "recruiter", Percentage: 3000},
			{Name: "", Role: Sourcer, Percentage: 1000},
		},
		RoleMapping:     map[MemberRole]ContributionRole{OwnerRole: "boss"},
		EmptyTierPolicy: "ignore",
	}
	errs, err = Validate(TieredSplit, cfg)
	is.NoErr(err)
	is.Equal(fields(errs), []string{
		"tiers[1].tier_name",
		"tiers[1].role",
		"tiers[2].tier_name",
		"tiers[2].role",
		"tiers",
		"role_mapping[owner]",
		"empty_tier_policy",
	})
}

func TestValidateIndividualCredit(t *testing.T) {
	is := is.New(t)

	errs, _ := Validate(IndividualCredit, Config{Basis: ContributionWeightBasis})
	is.Equal(len(errs), 0)

	errs, _ = Validate(IndividualCredit, Config{})
	is.Equal(fields(errs), []string{"basis"})

	errs, _ = Validate(IndividualCredit, Config{Basis: StageCreditsBasis})
	is.Equal(fields(errs), []string{"stage_weights"})

	errs, _ = Validate(IndividualCredit, Config{Basis: StageCreditsBasis, StageWeights: []StageWeight{
		{Stage: "sourced", Weight: 1},
		{Stage: "sourced", Weight: -2},
	}})
	is.Equal(fields(errs), []string{"stage_weights[1].stage", "stage_weights[1].weight"})
}

func TestValidateHybrid(t *testing.T) {
	is := is.New(t)

	ok := Config{
		BasePoolPercentage: pct(70),
		BaseModel:          FlatSplit,
		Base:               &Config{Entries: []FlatEntry{{Recruiter: "A", Percentage: money.Hundred}}},
		Credit:             &Config{Basis: ContributionWeightBasis},
	}
	errs, err := Validate(Hybrid, ok)
	is.NoErr(err)
	is.Equal(len(errs), 0)

	bad := Config{
		BasePoolPercentage:   pct(70),
		CreditPoolPercentage: pct(40),
		BaseModel:            FlatSplit,
		Base:                 &Config{Entries: []FlatEntry{{Recruiter: "A", Percentage: 9000}}},
		Credit:               &Config{},
	}
	errs, err = Validate(Hybrid, bad)
	is.NoErr(err)
	is.Equal(fields(errs), []string{"credit_pool_percentage", "base_config.entries", "credit_config.basis"})

	errs, err = Validate(Hybrid, Config{BaseModel: Hybrid})
	is.NoErr(err)
	is.Equal(fields(errs), []string{"base_pool_percentage", "base_model", "credit_config"})
}

func TestValidateUnknownModel(t *testing.T) {
	is := is.New(t)
	_, err := Validate("round_robin", Config{})
	is.True(errors.Is(err, ErrUnknownModel))

	_, err = ParseModel("round_robin")
	is.True(errors.Is(err, ErrUnknownModel))

	m, err := ParseModel("hybrid")
	is.NoErr(err)
	is.Equal(m, Hybrid)
}
