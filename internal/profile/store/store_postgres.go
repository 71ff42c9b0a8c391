package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"studiogate/internal/profile"
	"studiogate/internal/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required: %w", sentinel.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	const q = `
		INSERT INTO profiles (id, status, role, display_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, string(p.Status), string(p.Role), p.DisplayName, p.Email, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return alreadyExists(p.ID)
		}
		return fmt.Errorf("insert profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	const q = `
		SELECT id, status, role, display_name, email, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	var (
		p      profile.Profile
		status string
		role   string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &status, &role, &p.DisplayName, &p.Email, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	p.Status = profile.Status(status)
	p.Role = profile.Role(role)
	return &p, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required: %w", sentinel.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	const q = `
		UPDATE profiles
		SET status = $2, role = $3, display_name = $4, email = $5, updated_at = $6
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q,
		p.ID, string(p.Status), string(p.Role), p.DisplayName, p.Email, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %v: %w", err, sentinel.ErrUnavailable)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %v: %w", err, sentinel.ErrUnavailable)
	}
	if affected == 0 {
		return notFound(p.ID)
	}
	return nil
}
