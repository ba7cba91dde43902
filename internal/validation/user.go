// Package validation checks user-supplied account fields and collects every
// failure so they can be reported in one response.
package validation

import (
	"net/mail"
	"regexp"
	"strings"

	"inkwell/internal/auth"
)

const (
	minUsernameLen = 4
	maxUsernameLen = 20
	minPasswordLen = 8
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

// Errors is a collection of field messages.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, ". ")
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Registration holds the fields checked when an account is created.
type Registration struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// ValidateRegistration checks every field and returns Errors listing all failures.
func ValidateRegistration(r Registration) error {
	var errs Errors
	errs = append(errs, usernameErrors(r.Username)...)
	errs = append(errs, emailErrors(r.Email)...)
	errs = append(errs, passwordErrors(r.Password, r.PasswordConfirm)...)
	return errs.orNil()
}

// ValidateUsername checks format and length.
func ValidateUsername(username string) error {
	return Errors(usernameErrors(username)).orNil()
}

// ValidatePassword checks length and that confirm matches.
func ValidatePassword(password, confirm string) error {
	return Errors(passwordErrors(password, confirm)).orNil()
}

func usernameErrors(username string) []string {
	if username == "" {
		return []string{"Username is required!"}
	}
	var errs []string
	if !usernameRegex.MatchString(username) {
		errs = append(errs, "Username must contain only letters or a combination of letters and numbers (but not only numbers).")
	}
	if len(username) < minUsernameLen {
		errs = append(errs, "Username must have at least 4 characters")
	}
	if len(username) > maxUsernameLen {
		errs = append(errs, "Username must have at most 20 characters")
	}
	return errs
}

func emailErrors(email string) []string {
	email = strings.TrimSpace(email)
	if email == "" {
		return []string{"Email is required!"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []string{"Please provide a valid email!"}
	}
	return nil
}

func passwordErrors(password, confirm string) []string {
	if password == "" {
		return []string{"Password is required!"}
	}
	var errs []string
	if len(password) < minPasswordLen {
		errs = append(errs, "Password should be at least 8 characters!")
	}
	if confirm == "" {
		errs = append(errs, "Please confirm your password!")
	} else if confirm != password {
		errs = append(errs, "Password do not match")
	}
	return errs
}

// ValidateRefreshToken accepts an empty value or a well-formed JWT.
func ValidateRefreshToken(token string) error {
	if token == "" || auth.IsWellFormed(token) {
		return nil
	}
	return Errors{"Refresh token must be a valid JWT"}
}
