package split

import (
	"fmt"
	"sort"

	"github.com/hirewell/revshare/pkg/money"
)

// Validate checks a configuration for internal consistency. It returns one
// ValidationError per violated rule, or nil when the configuration is
// usable. The error return is reserved for unknown models.
func Validate(model Model, cfg Config) (ValidationErrors, error) {
	var errs ValidationErrors
	if err := validate(&errs, "", model, cfg); err != nil {
		return nil, err
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

func validate(errs *ValidationErrors, prefix string, model Model, cfg Config) error {
	switch model {
	case FlatSplit:
		validateFlat(errs, prefix, cfg)
	case TieredSplit:
		validateTiered(errs, prefix, cfg)
	case IndividualCredit:
		validateCredit(errs, prefix, cfg)
	case Hybrid:
		return validateHybrid(errs, prefix, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return nil
}

func validatePercent(errs *ValidationErrors, field string, p money.Percent) {
	if p < 0 {
		errs.add(field, "must not be negative")
	} else if p > money.Hundred {
		errs.add(field, "must not exceed 100")
	}
}

func validateFlat(errs *ValidationErrors, prefix string, cfg Config) {
	if len(cfg.Entries) == 0 {
		errs.add(prefix+"entries", "at least one entry is required")
		return
	}

	seen := make(map[string]int, len(cfg.Entries))
	var total money.Percent
	for i, e := range cfg.Entries {
		field := fmt.Sprintf("%sentries[%d]", prefix, i)
		switch {
		case e.Recruiter == "" && e.Role == "":
			errs.add(field, "one of recruiter or role is required")
			continue
		case e.Recruiter != "" && e.Role != "":
			errs.add(field, "recruiter and role are mutually exclusive")
			continue
		case e.Role != "" && !e.Role.Valid():
			errs.add(field+".role", "unknown membership role %q", e.Role)
		}
		if j, ok := seen[e.ref()]; ok {
			errs.add(field, "duplicates entries[%d]", j)
		} else {
			seen[e.ref()] = i
		}
		validatePercent(errs, field+".percentage", e.Percentage)
		total += e.Percentage
	}

	if total != money.Hundred {
		errs.add(prefix+"entries", "percentages sum to %s, want 100", total)
	}
}

func validateTiered(errs *ValidationErrors, prefix string, cfg Config) {
	if len(cfg.Tiers) == 0 {
		errs.add(prefix+"tiers", "at least one tier is required")
	}

	names := make(map[string]int, len(cfg.Tiers))
	roles := make(map[ContributionRole]int, len(cfg.Tiers))
	var total money.Percent
	for i, t := range cfg.Tiers {
		field := fmt.Sprintf("%stiers[%d]", prefix, i)
		if t.Name == "" {
			errs.add(field+".tier_name", "is required")
		} else if j, ok := names[t.Name]; ok {
			errs.add(field+".tier_name", "duplicates tiers[%d]", j)
		} else {
			names[t.Name] = i
		}
		if !t.Role.Valid() {
			errs.add(field+".role", "unknown contribution role %q", t.Role)
		} else if j, ok := roles[t.Role]; ok {
			errs.add(field+".role", "role %q already assigned to tiers[%d]", t.Role, j)
		} else {
			roles[t.Role] = i
		}
		validatePercent(errs, field+".percentage", t.Percentage)
		total += t.Percentage
	}
	if len(cfg.Tiers) > 0 && total != money.Hundred {
		errs.add(prefix+"tiers", "percentages sum to %s, want 100", total)
	}

	mapped := make([]string, 0, len(cfg.RoleMapping))
	for mr := range cfg.RoleMapping {
		mapped = append(mapped, string(mr))
	}
	sort.Strings(mapped)
	for _, k := range mapped {
		mr, cr := MemberRole(k), cfg.RoleMapping[MemberRole(k)]
		field := fmt.Sprintf("%srole_mapping[%s]", prefix, mr)
		if !mr.Valid() {
			errs.add(field, "unknown membership role %q", mr)
		}
		if !cr.Valid() {
			errs.add(field, "unknown contribution role %q", cr)
		}
	}

	if cfg.EmptyTierPolicy != "" && !cfg.EmptyTierPolicy.Valid() {
		errs.add(prefix+"empty_tier_policy", "unknown policy %q", cfg.EmptyTierPolicy)
	}
}

func validateCredit(errs *ValidationErrors, prefix string, cfg Config) {
	switch cfg.Basis {
	case "":
		errs.add(prefix+"basis", "is required")
	case ContributionWeightBasis:
	case StageCreditsBasis:
		if len(cfg.StageWeights) == 0 {
			errs.add(prefix+"stage_weights", "at least one stage weight is required")
		}
	default:
		errs.add(prefix+"basis", "unknown basis %q", cfg.Basis)
	}

	stages := make(map[string]int, len(cfg.StageWeights))
	for i, sw := range cfg.StageWeights {
		field := fmt.Sprintf("%sstage_weights[%d]", prefix, i)
		if sw.Stage == "" {
			errs.add(field+".stage", "is required")
		} else if j, ok := stages[sw.Stage]; ok {
			errs.add(field+".stage", "duplicates stage_weights[%d]", j)
		} else {
			stages[sw.Stage] = i
		}
		if sw.Weight < 0 {
			errs.add(field+".weight", "must not be negative")
		}
	}
}

func validateHybrid(errs *ValidationErrors, prefix string, cfg Config) error {
	if cfg.BasePoolPercentage == nil {
		errs.add(prefix+"base_pool_percentage", "is required")
	} else {
		validatePercent(errs, prefix+"base_pool_percentage", *cfg.BasePoolPercentage)
		if cfg.CreditPoolPercentage != nil && *cfg.BasePoolPercentage+*cfg.CreditPoolPercentage != money.Hundred {
			errs.add(prefix+"credit_pool_percentage", "base and credit pools sum to %s, want 100",
				*cfg.BasePoolPercentage+*cfg.CreditPoolPercentage)
		}
	}

	switch cfg.BaseModel {
	case FlatSplit, TieredSplit:
		if cfg.Base == nil {
			errs.add(prefix+"base_config", "is required")
		} else if err := validate(errs, prefix+"base_config.", cfg.BaseModel, *cfg.Base); err != nil {
			return err
		}
	case "":
		errs.add(prefix+"base_model", "is required")
	default:
		errs.add(prefix+"base_model", "must be %s or %s, got %q", FlatSplit, TieredSplit, cfg.BaseModel)
	}

	if cfg.Credit == nil {
		errs.add(prefix+"credit_config", "is required")
	} else {
		validateCredit(errs, prefix+"credit_config.", *cfg.Credit)
	}
	return nil
}

// pools returns the base and credit pool percentages of a hybrid config.
func (c Config) pools() (base, credit money.Percent) {
	if c.BasePoolPercentage != nil {
		base = *c.BasePoolPercentage
	}
	return base, money.Hundred - base
}
