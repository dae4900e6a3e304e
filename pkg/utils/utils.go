package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeName trims surrounding whitespace and collapses inner runs of
// whitespace into a single space.
func SanitizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateTeamName returns an error if the given team name is invalid.
// Team names must start with a letter so they never collide with numeric
// team ids.
func ValidateTeamName(name string) error {
	if name == "" {
		return fmt.Errorf("is required")
	}

	if !unicode.IsLetter([]rune(name)[0]) {
		return fmt.Errorf("must start with a letter")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '.' && r != ' ' {
			return fmt.Errorf("can only contain letters, numbers, spaces, hyphens, underscores, and periods")
		}
	}

	return nil
}

// ValidateRecruiterID returns an error if the given recruiter id is invalid.
func ValidateRecruiterID(id string) error {
	if id == "" {
		return fmt.Errorf("is required")
	}

	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '.' && r != '@' {
			return fmt.Errorf("can only contain letters, numbers, hyphens, underscores, periods, and @")
		}
	}

	return nil
}
