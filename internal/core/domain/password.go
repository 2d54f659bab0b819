package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8

	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// PasswordSpecialChars is the set a strong password must draw at least one character from.
const PasswordSpecialChars = `@$!%*?&#^()-_=+{};:,<.>`

// PasswordStrength breaks the strength policy down into its individual rules.
type PasswordStrength struct {
	LongEnough bool
	HasLower   bool
	HasUpper   bool
	HasDigit   bool
	HasSpecial bool
}

// OK reports whether every rule holds.
func (s PasswordStrength) OK() bool {
	return s.LongEnough && s.HasLower && s.HasUpper && s.HasDigit && s.HasSpecial
}

// CheckPasswordStrength evaluates each rule of the password policy.
func CheckPasswordStrength(password string) PasswordStrength {
	s := PasswordStrength{LongEnough: utf8.RuneCountInString(password) >= MinPasswordLength}
	for _, r := range password {
		switch {
		case 'a' <= r && r <= 'z':
			s.HasLower = true
		case 'A' <= r && r <= 'Z':
			s.HasUpper = true
		case '0' <= r && r <= '9':
			s.HasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			s.HasSpecial = true
		}
	}
	return s
}

// IsStrongPassword reports whether password satisfies the full policy and
// fits within MaxPasswordBytes.
func IsStrongPassword(password string) bool {
	return len(password) <= MaxPasswordBytes && CheckPasswordStrength(password).OK()
}
