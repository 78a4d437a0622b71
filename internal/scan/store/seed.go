package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"luminary/internal/scan/models"
	"luminary/internal/scan/store/profile"
)

// SeedDemoProfile creates a fixed demo account and target so a fresh
// in-memory deployment has something to scan. IDs are stable so dev
// tooling can hardcode them.
func SeedDemoProfile(ps *profile.InMemory) *models.TargetProfile {
	p := &models.TargetProfile{
		ID:           uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		AccountID:    uuid.MustParse("00000000-0000-0000-0000-0000000000aa"),
		Name:         "Ada Example",
		Organization: "Example Labs",
		Role:         "CEO",
		Industry:     "Technology",
		Keywords:     []string{"machine learning", "startups"},
		CreatedAt:    time.Now(),
	}
	_ = ps.Put(context.Background(), p)
	return p
}
