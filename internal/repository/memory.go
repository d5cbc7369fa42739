package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/MemberAuth/internal/models"
)

// MemoryAuthRepository keeps members in process memory. It is used when no
// database is configured and as a fake in tests.
type MemoryAuthRepository struct {
	mu      sync.RWMutex
	members map[string]models.Member
}

// NewMemoryAuthRepository returns an empty MemoryAuthRepository.
func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{members: make(map[string]models.Member)}
}

// FindMemberByEmail returns a copy of the member stored under email, or ErrNotFound.
func (r *MemoryAuthRepository) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// InsertMember stores a copy of m, or returns ErrDuplicateIdentifier if the
// email is taken.
func (r *MemoryAuthRepository) InsertMember(ctx context.Context, m *models.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[m.Email]; ok {
		return ErrDuplicateIdentifier
	}
	r.members[m.Email] = *m
	return nil
}
