package run

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"luminary/internal/scan/models"
	"luminary/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *InMemorySuite) newRun(targetID uuid.UUID, createdAt time.Time) *models.ScanRun {
	r := &models.ScanRun{
		ID:        uuid.New(),
		TargetID:  targetID,
		Status:    models.RunRunning,
		Progress:  10,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	s.Require().NoError(s.store.Create(s.ctx, r))
	return r
}

func (s *InMemorySuite) TestCreateAndGet() {
	r := s.newRun(uuid.New(), time.Now())

	got, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.ID, got.ID)
	s.Equal(models.RunRunning, got.Status)
	s.Equal(10, got.Progress)
}

func (s *InMemorySuite) TestCreateDuplicateConflicts() {
	r := s.newRun(uuid.New(), time.Now())
	err := s.store.Create(s.ctx, r)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemorySuite) TestGetUnknownRun() {
	_, err := s.store.Get(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestGetReturnsCopy() {
	r := s.newRun(uuid.New(), time.Now())

	got, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	got.Progress = 99

	again, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(10, again.Progress)
}

func (s *InMemorySuite) TestLatestByTarget() {
	targetID := uuid.New()
	base := time.Now()
	s.newRun(targetID, base.Add(-2*time.Hour))
	newest := s.newRun(targetID, base)
	s.newRun(targetID, base.Add(-1*time.Hour))
	s.newRun(uuid.New(), base.Add(time.Hour)) // other target

	got, err := s.store.LatestByTarget(s.ctx, targetID)
	s.Require().NoError(err)
	s.Equal(newest.ID, got.ID)
}

func (s *InMemorySuite) TestLatestByTargetEmpty() {
	_, err := s.store.LatestByTarget(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestUpdateProgressAdvances() {
	r := s.newRun(uuid.New(), time.Now())

	s.Require().NoError(s.store.UpdateProgress(s.ctx, r.ID, models.RunRunning, 55))
	got, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(55, got.Progress)
}

func (s *InMemorySuite) TestUpdateProgressRejectsRegression() {
	r := s.newRun(uuid.New(), time.Now())
	s.Require().NoError(s.store.UpdateProgress(s.ctx, r.ID, models.RunRunning, 65))

	err := s.store.UpdateProgress(s.ctx, r.ID, models.RunRunning, 55)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	got, getErr := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(getErr)
	s.Equal(65, got.Progress)
}

func (s *InMemorySuite) TestCompleteSetsTerminalState() {
	r := s.newRun(uuid.New(), time.Now())
	payload := &models.Payload{TotalMentions: 7}

	s.Require().NoError(s.store.Complete(s.ctx, r.ID, payload))
	got, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.RunCompleted, got.Status)
	s.Equal(100, got.Progress)
	s.Require().NotNil(got.Payload)
	s.Equal(7, got.Payload.TotalMentions)
}

func (s *InMemorySuite) TestTerminalRunsAreImmutable() {
	r := s.newRun(uuid.New(), time.Now())
	s.Require().NoError(s.store.Fail(s.ctx, r.ID, "upstream timeout"))

	s.ErrorIs(s.store.UpdateProgress(s.ctx, r.ID, models.RunRunning, 90), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.Complete(s.ctx, r.ID, &models.Payload{}), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.Fail(s.ctx, r.ID, "again"), sentinel.ErrInvalidState)

	got, err := s.store.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.RunFailed, got.Status)
	s.Equal("upstream timeout", got.Error)
	s.Nil(got.Payload)
}
