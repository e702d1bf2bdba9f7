package auth

import "regexp"

// Registration field rules. Bounds are part of the product contract:
// name 20-60 chars, email well-formed, address up to 400 chars, password
// 8-16 chars with at least one uppercase and one special character.

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func ValidateName(name string) []FieldError {
	if len(name) < 20 || len(name) > 60 {
		return []FieldError{{Field: "name", Message: "Name must be 20-60 characters"}}
	}
	return nil
}

func ValidateEmail(email string) []FieldError {
	if !emailRe.MatchString(email) {
		return []FieldError{{Field: "email", Message: "Invalid email"}}
	}
	return nil
}

func ValidateAddress(address *string) []FieldError {
	if address != nil && len(*address) > 400 {
		return []FieldError{{Field: "address", Message: "Address max 400 characters"}}
	}
	return nil
}

func ValidatePassword(password string) []FieldError {
	var errs []FieldError
	if len(password) < 8 || len(password) > 16 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be 8-16 characters"})
	}
	if !upperRe.MatchString(password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least 1 uppercase letter"})
	}
	if !specialRe.MatchString(password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password must contain at least 1 special character"})
	}
	return errs
}

// ValidateRegistration runs all field rules and collects every violation,
// so the client sees the full itemized list in one round trip.
func ValidateRegistration(name, email string, address *string, password string) []FieldError {
	var errs []FieldError
	errs = append(errs, ValidateName(name)...)
	errs = append(errs, ValidateEmail(email)...)
	errs = append(errs, ValidateAddress(address)...)
	errs = append(errs, ValidatePassword(password)...)
	return errs
}
