package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

// PostgresStore reads target profiles from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.TargetProfile, error) {
	var p models.TargetProfile
	err := s.pool.QueryRow(ctx, `
		SELECT id, account_id, name, organization, role, industry, keywords, created_at
		FROM target_profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.AccountID, &p.Name, &p.Organization, &p.Role, &p.Industry, &p.Keywords, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("profile row: %w", err)
	}
	return &p, nil
}

// Put inserts or replaces a profile. Primarily for seeding and tests; the
// account service owns profile writes in production.
func (s *PostgresStore) Put(ctx context.Context, p *models.TargetProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO target_profiles (id, account_id, name, organization, role, industry, keywords, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			name = EXCLUDED.name,
			organization = EXCLUDED.organization,
			role = EXCLUDED.role,
			industry = EXCLUDED.industry,
			keywords = EXCLUDED.keywords`,
		p.ID, p.AccountID, p.Name, p.Organization, p.Role, p.Industry, p.Keywords, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
