// Package service provides the member authentication protocol, composing the
// credential manager with an AuthRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atinyakov/MemberAuth/internal/models"
	"github.com/atinyakov/MemberAuth/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so callers cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateIdentifier is returned when registering an email that is already taken.
	ErrDuplicateIdentifier = errors.New("email already registered")
)

// dummyPassword is hashed once and verified against when the email is unknown,
// so a missing member costs as much as a wrong password.
const dummyPassword = "memberauth-timing-equalizer"

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// FindMemberByEmail returns the member with the given email or repository.ErrNotFound.
	FindMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	// InsertMember stores a new member or returns repository.ErrDuplicateIdentifier.
	InsertMember(ctx context.Context, m *models.Member) error
}

// CredentialManager derives and verifies stored secrets.
type CredentialManager interface {
	Derive(plaintext string) (string, error)
	Verify(plaintext, storedSecret string) (bool, error)
	NeedsRehash(storedSecret string) bool
}

// Service implements member registration and authentication.
type Service struct {
	repo  AuthRepository
	creds CredentialManager
	log   *zap.Logger
	now   func() time.Time

	dummyOnce   sync.Once
	dummySecret string
}

// NewAuthService constructs a new Service. A nil logger disables logging.
func NewAuthService(repo AuthRepository, creds CredentialManager, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:  repo,
		creds: creds,
		log:   log,
		now:   time.Now,
	}
}

// Register validates in, derives a stored secret from its password and stores
// the new member. The plaintext password never leaves this call.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.Member, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	secret, err := s.creds.Derive(in.Password)
	if err != nil {
		s.log.Error("failed to derive stored secret", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("register %s: %w", in.Email, err)
	}

	member := &models.Member{
		ID:           uuid.NewString(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DOB:          in.DOB,
		Address:      in.Address,
		Phone:        in.Phone,
		PasswordHash: secret,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.InsertMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			s.log.Info("registration rejected: duplicate email", zap.String("email", in.Email))
			return nil, ErrDuplicateIdentifier
		}
		s.log.Error("failed to store member", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("register %s: %w", in.Email, err)
	}

	s.log.Info("member registered", zap.String("email", member.Email), zap.String("id", member.ID))
	return member, nil
}

// Authenticate checks in against the stored secret of the member it names.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
// A stored secret that fails to parse is reported as credential.ErrMalformedSecret.
func (s *Service) Authenticate(ctx context.Context, in models.LoginInput) (*models.Member, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	member, err := s.repo.FindMemberByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.burnVerify(in.Password)
			s.log.Info("login failed", zap.String("email", in.Email))
			return nil, ErrInvalidCredentials
		}
		s.log.Error("failed to look up member", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("authenticate %s: %w", in.Email, err)
	}

	ok, err := s.creds.Verify(in.Password, member.PasswordHash)
	if err != nil {
		s.log.Error("failed to verify stored secret", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("authenticate %s: %w", in.Email, err)
	}
	if !ok {
		s.log.Info("login failed", zap.String("email", in.Email))
		return nil, ErrInvalidCredentials
	}

	if s.creds.NeedsRehash(member.PasswordHash) {
		s.log.Debug("stored secret uses a different work factor", zap.String("email", in.Email))
	}
	s.log.Info("login succeeded", zap.String("email", in.Email))
	return member, nil
}

// burnVerify spends the same work as a real verification against a secret
// that can never match.
func (s *Service) burnVerify(plaintext string) {
	s.dummyOnce.Do(func() {
		secret, err := s.creds.Derive(dummyPassword)
		if err != nil {
			s.log.Warn("failed to derive timing secret", zap.Error(err))
			return
		}
		s.dummySecret = secret
	})
	if s.dummySecret == "" {
		return
	}
	_, _ = s.creds.Verify(plaintext, s.dummySecret)
}
