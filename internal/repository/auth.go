// Package repository provides persistence implementations for member authentication.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/MemberAuth/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no member matches the requested email.
	ErrNotFound = errors.New("member not found")
	// ErrDuplicateIdentifier is returned when a member with the same email already exists.
	ErrDuplicateIdentifier = errors.New("member already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresAuthRepository implements member storage using a PostgreSQL database.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// FindMemberByEmail returns the member registered under email.
// It returns ErrNotFound when no row matches.
func (r *PostgresAuthRepository) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var m models.Member
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, email, first_name, last_name, dob, address, phone, pwd, created_at FROM members WHERE email = $1`,
		email,
	).Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.DOB, &m.Address, &m.Phone, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("FindMemberByEmail: %w", err)
	}
	return &m, nil
}

// InsertMember stores a new member.
// A unique violation on email is reported as ErrDuplicateIdentifier and leaves
// the existing row untouched.
func (r *PostgresAuthRepository) InsertMember(ctx context.Context, m *models.Member) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO members (id, email, first_name, last_name, dob, address, phone, pwd, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Email, m.FirstName, m.LastName, m.DOB, m.Address, m.Phone, m.PasswordHash, m.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateIdentifier
		}
		return fmt.Errorf("InsertMember: %w", err)
	}
	return nil
}
