// Package service is the application layer over the orchestrator: it
// resolves target profiles, enforces ownership, and exposes the start and
// poll operations the HTTP handler binds to.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

// ProfileStore loads target profiles.
type ProfileStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.TargetProfile, error)
}

// RunReader reads run records for polling.
type RunReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ScanRun, error)
	LatestByTarget(ctx context.Context, targetID uuid.UUID) (*models.ScanRun, error)
}

// Starter launches scans. Implemented by the orchestrator.
type Starter interface {
	StartScan(ctx context.Context, profile models.TargetProfile) (uuid.UUID, error)
}

// Service wires profile resolution and ownership checks around the
// orchestrator.
type Service struct {
	profiles ProfileStore
	runs     RunReader
	starter  Starter
}

// New constructs a Service.
func New(profiles ProfileStore, runs RunReader, starter Starter) *Service {
	return &Service{profiles: profiles, runs: runs, starter: starter}
}

// StartScan validates ownership of the target and launches a scan,
// returning the new run record for the accepted-style response.
func (s *Service) StartScan(ctx context.Context, accountID string, targetID uuid.UUID) (*models.ScanRun, error) {
	profile, err := s.ownedProfile(ctx, accountID, targetID)
	if err != nil {
		return nil, err
	}
	runID, err := s.starter.StartScan(ctx, *profile)
	if err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}
	return s.runs.Get(ctx, runID)
}

// GetRun returns a run after verifying the caller owns its target.
func (s *Service) GetRun(ctx context.Context, accountID string, runID uuid.UUID) (*models.ScanRun, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedProfile(ctx, accountID, run.TargetID); err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun returns the most recent run for a target the caller owns.
func (s *Service) LatestRun(ctx context.Context, accountID string, targetID uuid.UUID) (*models.ScanRun, error) {
	if _, err := s.ownedProfile(ctx, accountID, targetID); err != nil {
		return nil, err
	}
	return s.runs.LatestByTarget(ctx, targetID)
}

// ownedProfile loads a profile and enforces ownership. Cross-account
// access reads as not-found so run and target IDs leak nothing.
func (s *Service) ownedProfile(ctx context.Context, accountID string, targetID uuid.UUID) (*models.TargetProfile, error) {
	profile, err := s.profiles.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if profile.AccountID.String() != accountID {
		return nil, fmt.Errorf("profile %s: %w", targetID, sentinel.ErrNotFound)
	}
	return profile, nil
}
