package repository

import (
	"context"
	"testing"
	"time"

	"tutorhub/internal/database"
	"tutorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlotRepo(t *testing.T) *SlotRepository {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewSlotRepository(db)
}

func TestSlotCreate_OverlapRejectedAtInsert(t *testing.T) {
	repo := newTestSlotRepo(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	first := &domain.Slot{
		TutorID: 1, LearnerID: 2,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotBooked,
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NotZero(t, first.ID)

	// Same interval guard bypassing any upfront availability read, as a
	// second request racing the first would.
	second := &domain.Slot{
		TutorID: 1, LearnerID: 3,
		StartTime: start.Add(30 * time.Minute), EndTime: start.Add(90 * time.Minute),
		Status: domain.SlotBooked,
	}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)

	var cnt int64
	require.NoError(t, repo.DB().Table("slots").Where("tutor_id = ?", 1).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestSlotCreate_RejectedSlotDoesNotBlock(t *testing.T) {
	repo := newTestSlotRepo(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	dead := &domain.Slot{
		TutorID: 1, LearnerID: 2,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotRejected, RejectionCause: domain.RejectionReschedule,
	}
	require.NoError(t, repo.Create(ctx, dead))

	replacement := &domain.Slot{
		TutorID: 1, LearnerID: 3,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotBooked,
	}
	require.NoError(t, repo.Create(ctx, replacement))
	assert.NotEqual(t, dead.ID, replacement.ID)
}

func TestSlotCreate_AdjacentIntervalsAllowed(t *testing.T) {
	repo := newTestSlotRepo(t)
	ctx := context.Background()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	first := &domain.Slot{
		TutorID: 1, LearnerID: 2,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotBooked,
	}
	require.NoError(t, repo.Create(ctx, first))

	backToBack := &domain.Slot{
		TutorID: 1, LearnerID: 3,
		StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour),
		Status: domain.SlotBooked,
	}
	require.NoError(t, repo.Create(ctx, backToBack))
}
