package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminary/internal/scan/models"
	runstore "luminary/internal/scan/store/run"
	"luminary/pkg/platform/sentinel"
)

type fakeProfiles struct {
	profiles map[uuid.UUID]*models.TargetProfile
}

func (f *fakeProfiles) Get(ctx context.Context, id uuid.UUID) (*models.TargetProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p, nil
}

type fakeStarter struct {
	runs    *runstore.InMemory
	started int
}

func (f *fakeStarter) StartScan(ctx context.Context, profile models.TargetProfile) (uuid.UUID, error) {
	f.started++
	run := &models.ScanRun{
		ID:        uuid.New(),
		TargetID:  profile.ID,
		Status:    models.RunRunning,
		Progress:  10,
		CreatedAt: time.Now(),
	}
	if err := f.runs.Create(ctx, run); err != nil {
		return uuid.Nil, err
	}
	return run.ID, nil
}

type fixture struct {
	svc     *Service
	starter *fakeStarter
	runs    *runstore.InMemory
	owner   uuid.UUID
	target  *models.TargetProfile
}

func newFixture() *fixture {
	owner := uuid.New()
	target := &models.TargetProfile{
		ID:        uuid.New(),
		AccountID: owner,
		Name:      "Ada Example",
	}
	runs := runstore.NewInMemory()
	starter := &fakeStarter{runs: runs}
	profiles := &fakeProfiles{profiles: map[uuid.UUID]*models.TargetProfile{target.ID: target}}
	return &fixture{
		svc:     New(profiles, runs, starter),
		starter: starter,
		runs:    runs,
		owner:   owner,
		target:  target,
	}
}

func TestStartScanReturnsRunningRun(t *testing.T) {
	f := newFixture()

	run, err := f.svc.StartScan(context.Background(), f.owner.String(), f.target.ID)

	require.NoError(t, err)
	assert.Equal(t, models.RunRunning, run.Status)
	assert.Equal(t, f.target.ID, run.TargetID)
	assert.Equal(t, 1, f.starter.started)
}

func TestStartScanUnknownTarget(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartScan(context.Background(), f.owner.String(), uuid.New())

	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Zero(t, f.starter.started)
}

func TestStartScanForeignTargetReadsAsNotFound(t *testing.T) {
	f := newFixture()
	stranger := uuid.New().String()

	_, err := f.svc.StartScan(context.Background(), stranger, f.target.ID)

	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Zero(t, f.starter.started)
}

func TestGetRunEnforcesOwnershipOfTarget(t *testing.T) {
	f := newFixture()
	run, err := f.svc.StartScan(context.Background(), f.owner.String(), f.target.ID)
	require.NoError(t, err)

	got, err := f.svc.GetRun(context.Background(), f.owner.String(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = f.svc.GetRun(context.Background(), uuid.New().String(), run.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestLatestRun(t *testing.T) {
	f := newFixture()
	_, err := f.svc.StartScan(context.Background(), f.owner.String(), f.target.ID)
	require.NoError(t, err)

	got, err := f.svc.LatestRun(context.Background(), f.owner.String(), f.target.ID)
	require.NoError(t, err)
	assert.Equal(t, f.target.ID, got.TargetID)

	_, err = f.svc.LatestRun(context.Background(), uuid.New().String(), f.target.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestLatestRunNoRunsYet(t *testing.T) {
	f := newFixture()

	_, err := f.svc.LatestRun(context.Background(), f.owner.String(), f.target.ID)

	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
