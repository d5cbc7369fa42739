// Package models defines the core data structures for members and the typed
// request payloads used to register and authenticate them.
package models

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidInput is returned when a request payload fails boundary validation.
var ErrInvalidInput = errors.New("invalid input")

// Member represents a registered member and its stored credential.
type Member struct {
	// ID is the unique identifier for the member.
	ID string `json:"id"`
	// Email is the login identifier, unique across all members.
	Email string `json:"email"`
	// FirstName is the member's given name.
	FirstName string `json:"fname"`
	// LastName is the member's family name.
	LastName string `json:"lname"`
	// DOB is the date of birth as submitted by the member.
	DOB string `json:"dob"`
	// Address is the member's postal address.
	Address string `json:"address"`
	// Phone is the member's contact number.
	Phone string `json:"phone"`
	// PasswordHash is the stored secret derived from the password. Never the plaintext.
	PasswordHash string `json:"-"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput is the signup form submitted by a prospective member.
type RegisterInput struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	DOB       string `json:"dob"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"inputEmail"`
	Password  string `json:"inputPassword"`
}

// Validate normalizes the email and checks the fields the credential flow relies on.
func (in *RegisterInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validateCredentials(in.Email, in.Password)
}

// LoginInput is a credential attempt. It lives for a single request and is
// never persisted or logged.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes the email and checks that both fields are present.
func (in *LoginInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validateCredentials(in.Email, in.Password)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return errors.Join(ErrInvalidInput, errors.New("email is required"))
	}
	if password == "" {
		return errors.Join(ErrInvalidInput, errors.New("password is required"))
	}
	return nil
}
