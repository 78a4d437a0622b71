package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

// PostgresStore persists scan runs in PostgreSQL. Lifecycle guards are
// expressed in the UPDATE predicates so concurrent writers cannot violate
// them.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed run store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, r *models.ScanRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scan_runs (id, target_id, status, progress, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.TargetID, string(r.Status), r.Progress, r.Error, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.ScanRun, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, target_id, status, progress, error, payload, created_at, updated_at
		FROM scan_runs WHERE id = $1`, id)
	return scanRun(row)
}

func (s *PostgresStore) LatestByTarget(ctx context.Context, targetID uuid.UUID) (*models.ScanRun, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, target_id, status, progress, error, payload, created_at, updated_at
		FROM scan_runs WHERE target_id = $1
		ORDER BY created_at DESC LIMIT 1`, targetID)
	return scanRun(row)
}

func (s *PostgresStore) UpdateProgress(ctx context.Context, id uuid.UUID, status models.RunStatus, progress int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE scan_runs
		SET status = $2, progress = $3, updated_at = $4
		WHERE id = $1
		  AND status NOT IN ('completed', 'failed')
		  AND progress <= $3`,
		id, string(status), progress, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update scan run progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.explainNoRows(ctx, id)
	}
	return nil
}

func (s *PostgresStore) Complete(ctx context.Context, id uuid.UUID, payload *models.Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal scan payload: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE scan_runs
		SET status = 'completed', progress = 100, payload = $2, updated_at = $3
		WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
		id, raw, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("complete scan run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.explainNoRows(ctx, id)
	}
	return nil
}

func (s *PostgresStore) Fail(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE scan_runs
		SET status = 'failed', error = $2, updated_at = $3
		WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
		id, message, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("fail scan run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.explainNoRows(ctx, id)
	}
	return nil
}

// explainNoRows distinguishes a missing run from a lifecycle violation
// after a guarded UPDATE matched nothing.
func (s *PostgresStore) explainNoRows(ctx context.Context, id uuid.UUID) error {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM scan_runs WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup scan run: %w", err)
	}
	return fmt.Errorf("run %s in state %s: %w", id, status, sentinel.ErrInvalidState)
}

func scanRun(row pgx.Row) (*models.ScanRun, error) {
	var (
		r       models.ScanRun
		status  string
		payload []byte
	)
	err := row.Scan(&r.ID, &r.TargetID, &status, &r.Progress, &r.Error, &payload, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scan run: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	r.Status = models.RunStatus(status)
	if len(payload) > 0 {
		var p models.Payload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("unmarshal scan payload: %w", err)
		}
		r.Payload = &p
	}
	return &r, nil
}
