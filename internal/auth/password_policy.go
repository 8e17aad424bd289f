package auth

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// SpecialChars lists the characters accepted by the special-character rule.
const SpecialChars = "+=%#/*!?,."

// PasswordMinLength is the minimum number of characters in a password.
const PasswordMinLength = 12

var (
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[` + regexp.QuoteMeta(SpecialChars) + `]`)
)

// Violation messages, in rule order.
var (
	ErrMsgMinLength   = fmt.Sprintf("password must contain at least %d characters", PasswordMinLength)
	ErrMsgUpperCase   = "password must contain at least one uppercase letter"
	ErrMsgLowerCase   = "password must contain at least one lowercase letter"
	ErrMsgDigit       = "password must contain at least one digit"
	ErrMsgSpecialChar = fmt.Sprintf("password must contain at least one special character (%s)", SpecialChars)
)

// PasswordCriteria reports each password rule independently.
type PasswordCriteria struct {
	HasMinLength   bool `json:"has_min_length"`
	HasUpperCase   bool `json:"has_upper_case"`
	HasLowerCase   bool `json:"has_lower_case"`
	HasDigit       bool `json:"has_digit"`
	HasSpecialChar bool `json:"has_special_char"`
}

// PasswordValidation is the blocking result of the password policy.
type PasswordValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// CheckCriteria evaluates every rule against password.
func CheckCriteria(password string) PasswordCriteria {
	return PasswordCriteria{
		HasMinLength:   utf8.RuneCountInString(password) >= PasswordMinLength,
		HasUpperCase:   upperRegex.MatchString(password),
		HasLowerCase:   lowerRegex.MatchString(password),
		HasDigit:       digitRegex.MatchString(password),
		HasSpecialChar: specialRegex.MatchString(password),
	}
}

// ValidatePassword lists violated rules in fixed order: length,
// uppercase, lowercase, digit, special character.
func ValidatePassword(password string) PasswordValidation {
	criteria := CheckCriteria(password)
	errs := make([]string, 0, 5)

	if !criteria.HasMinLength {
		errs = append(errs, ErrMsgMinLength)
	}
	if !criteria.HasUpperCase {
		errs = append(errs, ErrMsgUpperCase)
	}
	if !criteria.HasLowerCase {
		errs = append(errs, ErrMsgLowerCase)
	}
	if !criteria.HasDigit {
		errs = append(errs, ErrMsgDigit)
	}
	if !criteria.HasSpecialChar {
		errs = append(errs, ErrMsgSpecialChar)
	}

	return PasswordValidation{Valid: len(errs) == 0, Errors: errs}
}
