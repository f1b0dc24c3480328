// Package validation holds input format checks shared by handlers and services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodeRegex = regexp.MustCompile(`^\d{6}$`)
	phoneRegex      = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkRegex       = regexp.MustCompile(`https?://\S+`)
	nonWordRegex    = regexp.MustCompile(`[^a-z0-9-]+`)
	spaceRegex      = regexp.MustCompile(`\s+`)
	hyphenRunRegex  = regexp.MustCompile(`-{2,}`)
)

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the 6-20 character policy.
func ValidatePassword(password string) error {
	if len(password) < 6 || len(password) > 20 {
		return fmt.Errorf("password must be between 6 and 20 characters")
	}
	return nil
}

// ValidateName enforces the 3-30 character policy for first/last names.
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 || len(trimmed) > 30 {
		return fmt.Errorf("%s must be between 3 and 30 characters", field)
	}
	return nil
}

// ValidatePostalCode enforces the 6-digit postal code format.
func ValidatePostalCode(code string) error {
	if !postalCodeRegex.MatchString(code) {
		return fmt.Errorf("%s is not a valid postal code", code)
	}
	return nil
}

// ValidateGender checks the gender enum, allowing empty (defaults applied later).
func ValidateGender(gender string) error {
	switch gender {
	case "", "male", "female", "other":
		return nil
	}
	return fmt.Errorf("gender must be one of male, female, other")
}

// ContainsContactInfo reports whether free text carries a phone number or URL.
// Listings must route contact through the platform, not the ad copy.
func ContainsContactInfo(text string) bool {
	return phoneRegex.MatchString(text) || linkRegex.MatchString(text)
}

// Slugify converts text to a lowercase hyphenated URL-safe form.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = spaceRegex.ReplaceAllString(s, "-")
	s = nonWordRegex.ReplaceAllString(s, "")
	s = hyphenRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
