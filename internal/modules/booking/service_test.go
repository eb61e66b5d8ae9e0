package booking

import (
	"context"
	"testing"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Create(ctx context.Context, s *domain.Slot) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 42
	}
	return args.Error(0)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) CheckAvailability(ctx context.Context, tutorID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, tutorID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) TransitionStatus(ctx context.Context, slotID int64, from []domain.SlotStatus, to domain.SlotStatus) error {
	args := m.Called(ctx, slotID, from, to)
	return args.Error(0)
}

func (m *MockSlotRepository) List(ctx context.Context, f repository.SlotFilter) ([]domain.Slot, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

type MockAvailabilityReader struct {
	mock.Mock
}

func (m *MockAvailabilityReader) ListByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error) {
	args := m.Called(ctx, tutorID)
	return args.Get(0).([]domain.AvailabilityRule), args.Error(1)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

const (
	tutorID   = int64(10)
	learnerID = int64(20)
)

// nextCoveredStart returns the next Monday 10:00 UTC at least a day out.
func nextCoveredStart() time.Time {
	t := time.Now().UTC().AddDate(0, 0, 1)
	t = time.Date(t.Year(), t.Month(), t.Day(), 10, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func mondayMorning() []domain.AvailabilityRule {
	return []domain.AvailabilityRule{
		{TutorID: tutorID, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "12:00"},
	}
}

func tutorUser() *domain.User {
	return &domain.User{ID: tutorID, Role: domain.RoleTutor}
}

func TestBook_Success(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	start := nextCoveredStart()
	users.On("GetByID", mock.Anything, tutorID).Return(tutorUser(), nil)
	av.On("ListByTutor", mock.Anything, tutorID).Return(mondayMorning(), nil)
	slots.On("CheckAvailability", mock.Anything, tutorID, start, start.Add(time.Hour)).Return(true, nil)
	slots.On("Create", mock.Anything, mock.Anything).Return(nil)

	slot, err := svc.Book(context.Background(), learnerID, BookSlotRequest{
		TutorID: tutorID, StartTime: start, EndTime: start.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SlotBooked, slot.Status)
	assert.Equal(t, learnerID, slot.LearnerID)
}

func TestBook_OutsideAvailability(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	start := nextCoveredStart().Add(5 * time.Hour) // 15:00, window closes at 12:00
	users.On("GetByID", mock.Anything, tutorID).Return(tutorUser(), nil)
	av.On("ListByTutor", mock.Anything, tutorID).Return(mondayMorning(), nil)

	_, err := svc.Book(context.Background(), learnerID, BookSlotRequest{
		TutorID: tutorID, StartTime: start, EndTime: start.Add(time.Hour),
	})

	assert.ErrorIs(t, err, ErrOutsideAvailability)
	slots.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_OverlapLosesAtInsert(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	start := nextCoveredStart()
	users.On("GetByID", mock.Anything, tutorID).Return(tutorUser(), nil)
	av.On("ListByTutor", mock.Anything, tutorID).Return(mondayMorning(), nil)
	slots.On("CheckAvailability", mock.Anything, tutorID, start, start.Add(time.Hour)).Return(true, nil)
	// Another booking won the race; the unique index fires on insert.
	slots.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Book(context.Background(), learnerID, BookSlotRequest{
		TutorID: tutorID, StartTime: start, EndTime: start.Add(time.Hour),
	})

	assert.ErrorIs(t, err, ErrOverlap)
}

func TestBook_PastStartRejected(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	start := time.Now().Add(-time.Hour)
	_, err := svc.Book(context.Background(), learnerID, BookSlotRequest{
		TutorID: tutorID, StartTime: start, EndTime: start.Add(time.Hour),
	})

	assert.ErrorIs(t, err, ErrInvalidTimes)
}

func TestCancel_BookedSlotBeforeStart(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	now := time.Now()
	booked := &domain.Slot{ID: 42, TutorID: tutorID, LearnerID: learnerID,
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: domain.SlotBooked}
	slots.On("GetByID", mock.Anything, int64(42)).Return(booked, nil)
	slots.On("TransitionStatus", mock.Anything, int64(42),
		[]domain.SlotStatus{domain.SlotBooked}, domain.SlotCancelled).Return(nil)

	slot, err := svc.Cancel(context.Background(), learnerID, 42, now)

	require.NoError(t, err)
	assert.Equal(t, domain.SlotCancelled, slot.Status)
}

func TestCancel_AfterStartRejected(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	now := time.Now()
	booked := &domain.Slot{ID: 42, TutorID: tutorID, LearnerID: learnerID,
		StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour), Status: domain.SlotBooked}
	slots.On("GetByID", mock.Anything, int64(42)).Return(booked, nil)

	_, err := svc.Cancel(context.Background(), learnerID, 42, now)

	assert.ErrorIs(t, err, ErrNotCancellable)
	slots.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_PaidSlotRejectedByGuard(t *testing.T) {
	slots := new(MockSlotRepository)
	av := new(MockAvailabilityReader)
	users := new(MockUserReader)
	svc := NewService(slots, av, users)

	now := time.Now()
	paid := &domain.Slot{ID: 42, TutorID: tutorID, LearnerID: learnerID,
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: domain.SlotPaid}
	slots.On("GetByID", mock.Anything, int64(42)).Return(paid, nil)
	slots.On("TransitionStatus", mock.Anything, int64(42),
		[]domain.SlotStatus{domain.SlotBooked}, domain.SlotCancelled).Return(repository.ErrStaleStatus)

	_, err := svc.Cancel(context.Background(), learnerID, 42, now)

	assert.ErrorIs(t, err, ErrNotCancellable)
}
