package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/MemberAuth/internal/credential"
	"github.com/atinyakov/MemberAuth/internal/models"
	"github.com/atinyakov/MemberAuth/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuthService) Register(ctx context.Context, in models.RegisterInput) (*models.Member, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.Member{ID: "member-1", Email: in.Email}, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, in models.LoginInput) (*models.Member, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Member{ID: "member-1", Email: in.Email}, nil
}

func TestAuthHandler_Signup(t *testing.T) {
	const body = `{"fname":"Ada","inputEmail":"a@b.com","inputPassword":"correct-horse"}`

	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "validation failure",
			body:           `{"inputEmail":""}`,
			service:        &fakeAuthService{registerErr: models.ErrInvalidInput},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "password too long",
			body:           body,
			service:        &fakeAuthService{registerErr: credential.ErrPasswordTooLong},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "duplicate email",
			body:           body,
			service:        &fakeAuthService{registerErr: service.ErrDuplicateIdentifier},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "email already registered",
		},
		{
			name:           "hashing failure",
			body:           body,
			service:        &fakeAuthService{registerErr: fmt.Errorf("register: %w", credential.ErrHashingFailure)},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "Error signing up",
		},
		{
			name:           "storage failure",
			body:           body,
			service:        &fakeAuthService{registerErr: errors.New("db error")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "Error signing up",
		},
		{
			name:           "success",
			body:           body,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusOK,
			expectedSubstr: "member-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/signup", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Signup(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	const body = `{"email":"a@b.com","password":"correct-horse"}`

	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectedJSON map[string]string
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"email":"a@b.com"}`,
			service:      &fakeAuthService{loginErr: models.ErrInvalidInput},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid credentials",
			body:         body,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "malformed stored secret",
			body:         body,
			service:      &fakeAuthService{loginErr: fmt.Errorf("authenticate: %w", credential.ErrMalformedSecret)},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "storage failure",
			body:         body,
			service:      &fakeAuthService{loginErr: errors.New("db fail")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "successful login",
			body:         body,
			service:      &fakeAuthService{},
			expectedCode: http.StatusOK,
			expectedJSON: map[string]string{"status": "ok", "message": "Login successful"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(tt.body))

			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("%s: expected status %d, got %d", tt.name, tt.expectedCode, res.StatusCode)
			}

			if tt.expectedJSON != nil {
				var payload map[string]string
				if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode JSON: %v", err)
				}
				for k, v := range tt.expectedJSON {
					if payload[k] != v {
						t.Errorf("expected %s=%q, got %q", k, v, payload[k])
					}
				}
			}
		})
	}
}
