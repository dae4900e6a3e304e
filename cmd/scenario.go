package cmd

import (
	"fmt"
	"os"

	"github.com/hirewell/revshare/pkg/split"
	"gopkg.in/yaml.v3"
)

// Scenario is a split configuration file. Contributors are only read by
// the offline calculator.
//
//	name: senior desk
//	model: flat_split
//	config:
//	  entries:
//	    - recruiter: alice
//	      percentage: 60
//	    - role: member
//	      percentage: 40
//	contributors:
//	  - recruiter_id: alice
//	    member_role: owner
type Scenario struct {
	Name            string                `yaml:"name"`
	Model           string                `yaml:"model"`
	Config          split.Config          `yaml:"config"`
	Contributors    []split.Contributor   `yaml:"contributors"`
	EmptyTierPolicy split.EmptyTierPolicy `yaml:"empty_tier_policy"`
}

// ReadScenario reads a YAML scenario file.
func ReadScenario(path string) (Scenario, error) {
	var s Scenario
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close() // nolint: errcheck

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}
