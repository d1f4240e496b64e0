package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxPasteTitleLen   = 100
	MaxPasteContentLen = 100000
	MaxCommentLen      = 2000
	MaxBioLen          = 500
)

var nameColorRegex = regexp.MustCompile(`^rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\)$`)

// Slugs derived from paste titles must not shadow API routes.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"auth":    {},
	"users":   {},
	"pastes":  {},
	"hall":    {},
	"admin":   {},
	"ws":      {},
	"metrics": {},
	"login":   {},
	"signup":  {},
}

// ValidatePasteTitle checks paste title constraints.
func ValidatePasteTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("title is required")
	}
	if len(trimmed) > MaxPasteTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxPasteTitleLen)
	}
	return nil
}

// ValidatePasteContent checks paste content constraints.
func ValidatePasteContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if len(content) > MaxPasteContentLen {
		return fmt.Errorf("content must not exceed %d characters", MaxPasteContentLen)
	}
	return nil
}

// ValidateCommentContent checks comment content constraints.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if len(content) > MaxCommentLen {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLen)
	}
	return nil
}

// ValidateNameColor checks that a color is a well-formed rgb() triple.
func ValidateNameColor(color string) error {
	if !nameColorRegex.MatchString(color) {
		return fmt.Errorf("color must be in rgb(r, g, b) format")
	}
	return nil
}

// SlugReserved reports whether a slug would shadow an API route.
func SlugReserved(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
