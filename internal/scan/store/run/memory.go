// Package run persists scan run records. The in-memory store backs
// development and tests; PostgresStore is the production implementation.
// Both enforce the run lifecycle invariants: progress never decreases and
// terminal runs never change again.
package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store.
type InMemory struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*models.ScanRun
}

// NewInMemory creates an empty in-memory run store.
func NewInMemory() *InMemory {
	return &InMemory{runs: make(map[uuid.UUID]*models.ScanRun)}
}

func (s *InMemory) Create(ctx context.Context, r *models.ScanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[r.ID]; exists {
		return fmt.Errorf("run %s: %w", r.ID, sentinel.ErrConflict)
	}
	cp := *r
	s.runs[r.ID] = &cp
	return nil
}

func (s *InMemory) Get(ctx context.Context, id uuid.UUID) (*models.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) LatestByTarget(ctx context.Context, targetID uuid.UUID) (*models.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.ScanRun
	for _, r := range s.runs {
		if r.TargetID != targetID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("target %s: %w", targetID, sentinel.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

// UpdateProgress advances status and progress. Regressions and writes to
// terminal runs are rejected.
func (s *InMemory) UpdateProgress(ctx context.Context, id uuid.UUID, status models.RunStatus, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("run %s already %s: %w", id, r.Status, sentinel.ErrInvalidState)
	}
	if progress < r.Progress {
		return fmt.Errorf("run %s progress regression %d -> %d: %w", id, r.Progress, progress, sentinel.ErrInvalidState)
	}
	r.Status = status
	r.Progress = progress
	r.UpdatedAt = time.Now()
	return nil
}

// Complete marks a run completed with its final payload at 100% progress.
func (s *InMemory) Complete(ctx context.Context, id uuid.UUID, payload *models.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("run %s already %s: %w", id, r.Status, sentinel.ErrInvalidState)
	}
	r.Status = models.RunCompleted
	r.Progress = 100
	r.Payload = payload
	r.UpdatedAt = time.Now()
	return nil
}

// Fail marks a run failed with a human-readable message. No payload is
// persisted for failed runs.
func (s *InMemory) Fail(ctx context.Context, id uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("run %s already %s: %w", id, r.Status, sentinel.ErrInvalidState)
	}
	r.Status = models.RunFailed
	r.Error = message
	r.UpdatedAt = time.Now()
	return nil
}
