// Package http provides HTTP handlers for member signup and password login.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/MemberAuth/internal/credential"
	"github.com/atinyakov/MemberAuth/internal/models"
	"github.com/atinyakov/MemberAuth/internal/service"
)

// maxBodyBytes bounds signup and login payloads.
const maxBodyBytes = 1 << 16

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a member from the signup form.
	Register(context.Context, models.RegisterInput) (*models.Member, error)
	// Authenticate checks a credential attempt and returns the matching member.
	Authenticate(context.Context, models.LoginInput) (*models.Member, error)
}

// AuthHandler handles HTTP requests for member signup and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Signup handles member registration.
// It expects a JSON body with the signup form fields; inputEmail and
// inputPassword are required.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterInput
	if err := decode(w, r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	member, err := h.AuthService.Register(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, credential.ErrEmptyPassword),
		errors.Is(err, credential.ErrPasswordTooLong):
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrDuplicateIdentifier):
		http.Error(w, "email already registered", http.StatusConflict)
		return
	default:
		http.Error(w, "Error signing up. Please try again.", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"status":  "ok",
		"message": "Signup successful",
		"id":      member.ID,
	})
}

// Login handles password login.
// It expects a JSON body with "email" and "password". Unknown emails and
// wrong passwords both produce 401 with the same body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginInput
	if err := decode(w, r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	_, err := h.AuthService.Authenticate(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	default:
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"status":  "ok",
		"message": "Login successful",
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
