// Package profile reads target profiles. Profiles are created by the
// account service; the scan engine only loads them, so the store surface
// is read-mostly with a Put used by seeding and tests.
package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.TargetProfile
}

// NewInMemory creates an empty in-memory profile store.
func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[uuid.UUID]*models.TargetProfile)}
}

func (s *InMemory) Get(ctx context.Context, id uuid.UUID) (*models.TargetProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// Put inserts or replaces a profile.
func (s *InMemory) Put(ctx context.Context, p *models.TargetProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}
