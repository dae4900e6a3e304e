// Package split validates revenue-sharing configurations and divides a
// placement fee among the recruiters who collaborated on it.
//
// All functions in this package are pure: they perform no I/O, hold no
// state and are safe to call concurrently.
package split

import (
	"encoding"
	"fmt"

	"github.com/hirewell/revshare/pkg/money"
)

// Model is a fee distribution model.
type Model string

const (
	// FlatSplit gives every referenced recruiter or role a fixed percentage.
	FlatSplit Model = "flat_split"
	// TieredSplit assigns contributors to tiers by contribution role and
	// divides each tier's percentage equally among its occupants.
	TieredSplit Model = "tiered_split"
	// IndividualCredit divides the fee in proportion to contribution weights.
	IndividualCredit Model = "individual_credit"
	// Hybrid splits the fee into a base pool (flat or tiered) and a credit
	// pool (individual credit).
	Hybrid Model = "hybrid"
)

// Models lists every known model.
var Models = []Model{FlatSplit, TieredSplit, IndividualCredit, Hybrid}

// ParseModel parses a model identifier.
func ParseModel(s string) (Model, error) {
	for _, m := range Models {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

var _ encoding.TextUnmarshaler = (*Model)(nil)

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Model) UnmarshalText(text []byte) error {
	v, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MemberRole is a team membership role.
type MemberRole string

const (
	OwnerRole         MemberRole = "owner"
	AdminRole         MemberRole = "admin"
	RegularMemberRole MemberRole = "member"
	CollaboratorRole  MemberRole = "collaborator"
)

// Valid reports whether r is a known membership role.
func (r MemberRole) Valid() bool {
	switch r {
	case OwnerRole, AdminRole, RegularMemberRole, CollaboratorRole:
		return true
	}
	return false
}

// ContributionRole is the part a recruiter played on a placement. Tiers
// are keyed by contribution role.
type ContributionRole string

const (
	Sourcer        ContributionRole = "sourcer"
	Submitter      ContributionRole = "submitter"
	Closer         ContributionRole = "closer"
	AccountManager ContributionRole = "account_manager"
)

// Valid reports whether r is a recognised contribution role.
func (r ContributionRole) Valid() bool {
	switch r {
	case Sourcer, Submitter, Closer, AccountManager:
		return true
	}
	return false
}

// DefaultRoleMapping maps membership roles to the contribution role used
// for tier assignment when a contributor carries no explicit one.
var DefaultRoleMapping = map[MemberRole]ContributionRole{
	OwnerRole:         Closer,
	AdminRole:         AccountManager,
	RegularMemberRole: Submitter,
	CollaboratorRole:  Sourcer,
}

// EmptyTierPolicy decides what happens to the percentage of a tier that no
// contributor occupies.
type EmptyTierPolicy string

const (
	// RejectEmptyTiers fails the calculation with a ConfigurationMismatchError.
	RejectEmptyTiers EmptyTierPolicy = "reject"
	// RedistributeEmptyTiers shares the unoccupied percentage among the
	// occupied tiers in proportion to their own percentages.
	RedistributeEmptyTiers EmptyTierPolicy = "redistribute"
)

// Valid reports whether p is a known policy.
func (p EmptyTierPolicy) Valid() bool {
	return p == RejectEmptyTiers || p == RedistributeEmptyTiers
}

// CreditBasis is the weighting basis of the individual credit model.
type CreditBasis string

const (
	// ContributionWeightBasis uses the weights reported for each recruiter.
	ContributionWeightBasis CreditBasis = "contribution_weight"
	// StageCreditsBasis derives weights from per-stage credits multiplied
	// by the configured stage weights.
	StageCreditsBasis CreditBasis = "stage_credits"
)

// FlatEntry is one fixed share of a flat split. Exactly one of Recruiter
// or Role is set; a role share is divided equally among the contributors
// holding that membership role.
type FlatEntry struct {
	Recruiter  string        `json:"recruiter,omitempty" yaml:"recruiter,omitempty"`
	Role       MemberRole    `json:"role,omitempty" yaml:"role,omitempty"`
	Percentage money.Percent `json:"percentage" yaml:"percentage"`
}

// ref returns a key identifying the entry's target.
func (e FlatEntry) ref() string {
	if e.Recruiter != "" {
		return "recruiter:" + e.Recruiter
	}
	return "role:" + string(e.Role)
}

// Tier is a named bucket of the tiered model.
type Tier struct {
	Name       string           `json:"tier_name" yaml:"tier_name"`
	Role       ContributionRole `json:"role" yaml:"role"`
	Percentage money.Percent    `json:"percentage" yaml:"percentage"`
}

// StageWeight is the weight of one credited stage.
type StageWeight struct {
	Stage  string `json:"stage" yaml:"stage"`
	Weight int64  `json:"weight" yaml:"weight"`
}

// Config holds the parameters of every model. Only the fields relevant to
// the model in use are read.
type Config struct {
	// flat_split
	Entries []FlatEntry `json:"entries,omitempty" yaml:"entries,omitempty"`

	// tiered_split
	Tiers           []Tier                          `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	RoleMapping     map[MemberRole]ContributionRole `json:"role_mapping,omitempty" yaml:"role_mapping,omitempty"`
	EmptyTierPolicy EmptyTierPolicy                 `json:"empty_tier_policy,omitempty" yaml:"empty_tier_policy,omitempty"`

	// individual_credit
	Basis        CreditBasis   `json:"basis,omitempty" yaml:"basis,omitempty"`
	StageWeights []StageWeight `json:"stage_weights,omitempty" yaml:"stage_weights,omitempty"`

	// hybrid
	BasePoolPercentage   *money.Percent `json:"base_pool_percentage,omitempty" yaml:"base_pool_percentage,omitempty"`
	CreditPoolPercentage *money.Percent `json:"credit_pool_percentage,omitempty" yaml:"credit_pool_percentage,omitempty"`
	BaseModel            Model          `json:"base_model,omitempty" yaml:"base_model,omitempty"`
	Base                 *Config        `json:"base_config,omitempty" yaml:"base_config,omitempty"`
	Credit               *Config        `json:"credit_config,omitempty" yaml:"credit_config,omitempty"`
}

// StageWeightMap returns the stage weights keyed by stage.
func (c Config) StageWeightMap() map[string]int64 {
	m := make(map[string]int64, len(c.StageWeights))
	for _, sw := range c.StageWeights {
		m[sw.Stage] = sw.Weight
	}
	return m
}

// Contributor is an active team member eligible to share a fee.
type Contributor struct {
	RecruiterID string     `json:"recruiter_id" yaml:"recruiter_id"`
	MemberRole  MemberRole `json:"member_role,omitempty" yaml:"member_role,omitempty"`
	// ContributionRole overrides the role mapping for tier assignment.
	ContributionRole ContributionRole `json:"contribution_role,omitempty" yaml:"contribution_role,omitempty"`
	Weight           int64            `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Share is one recruiter's part of a fee.
type Share struct {
	RecruiterID string        `json:"recruiter_id"`
	Percentage  money.Percent `json:"split_percentage"`
	Amount      money.Money   `json:"split_amount"`
}
