package auth

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidateCredentials checks the sign-in input before any network call.
// It returns the failure code, or CodeUnknown with ok=true when the input is
// acceptable.
func ValidateCredentials(email, password string) (Code, bool) {
	if !emailRe.MatchString(email) {
		return CodeInvalidEmail, false
	}
	if !strongEnough(password) {
		return CodeWeakPassword, false
	}
	return CodeUnknown, true
}

// strongEnough requires at least 8 characters with at least one letter and
// one digit.
func strongEnough(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
