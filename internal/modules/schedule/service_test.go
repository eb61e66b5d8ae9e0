package schedule

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

// Mock repositories

type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) ListByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error) {
	args := m.Called(ctx, tutorID)
	return args.Get(0).([]domain.AvailabilityRule), args.Error(1)
}

func (m *MockAvailabilityRepository) ReplaceForTutor(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error {
	args := m.Called(ctx, tutorID, rules)
	return args.Error(0)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) ListFutureLive(ctx context.Context, tutorID int64, now time.Time) ([]domain.Slot, error) {
	args := m.Called(ctx, tutorID, now)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Reject(ctx context.Context, slotID int64, from []domain.SlotStatus, cause domain.RejectionCause) error {
	args := m.Called(ctx, slotID, from, cause)
	return args.Error(0)
}

type MockPaymentLedger struct {
	mock.Mock
}

func (m *MockPaymentLedger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPaymentLedger) ListBySlot(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, slotID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

const tutorID = int64(10)

// nextWeekday returns the next instant at hh:00 UTC falling on the given
// weekday, at least one day in the future.
func nextWeekday(now time.Time, day time.Weekday, hh int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hh, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for t.Weekday() != day {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func mondayRules() []domain.AvailabilityRule {
	return []domain.AvailabilityRule{
		{TutorID: tutorID, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "12:00"},
	}
}

func newTestService(av *MockAvailabilityRepository, slots *MockSlotRepository, led *MockPaymentLedger) *Service {
	return NewService(av, slots, led, nil)
}

func TestSetAvailability_InvalidatesUncoveredPaidSlot(t *testing.T) {
	now := time.Now().UTC()
	av := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(av, slots, led)

	// Paid slot on a Wednesday; new windows only cover Mondays.
	start := nextWeekday(now, time.Wednesday, 10)
	paid := domain.Slot{
		ID: 5, TutorID: tutorID, LearnerID: 20,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotPaid, PaymentID: "pay-5",
	}

	av.On("ReplaceForTutor", mock.Anything, tutorID, mock.Anything).Return(nil)
	slots.On("ListFutureLive", mock.Anything, tutorID, now).Return([]domain.Slot{paid}, nil)
	slots.On("Reject", mock.Anything, int64(5),
		[]domain.SlotStatus{domain.SlotBooked, domain.SlotPaid}, domain.RejectionReschedule).Return(nil)
	led.On("ListBySlot", mock.Anything, int64(5)).Return([]domain.LedgerEntry{
		{SlotID: 5, PaymentID: "pay-5", Type: domain.LedgerCharge, Amount: 50},
	}, nil)
	led.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Type == domain.LedgerRefund && e.Amount == 50 && e.Cause == string(domain.RejectionReschedule)
	})).Return(nil)

	invalidated, err := svc.SetAvailability(context.Background(), tutorID, mondayRules(), now)

	require.NoError(t, err)
	require.Len(t, invalidated, 1)
	assert.Equal(t, domain.SlotRejected, invalidated[0].Status)
	assert.Equal(t, domain.RejectionReschedule, invalidated[0].RejectionCause)
	led.AssertExpectations(t)
}

func TestSetAvailability_BookedSlotRejectedWithoutRefund(t *testing.T) {
	now := time.Now().UTC()
	av := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(av, slots, led)

	start := nextWeekday(now, time.Friday, 10)
	booked := domain.Slot{
		ID: 6, TutorID: tutorID, LearnerID: 20,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotBooked,
	}

	av.On("ReplaceForTutor", mock.Anything, tutorID, mock.Anything).Return(nil)
	slots.On("ListFutureLive", mock.Anything, tutorID, now).Return([]domain.Slot{booked}, nil)
	slots.On("Reject", mock.Anything, int64(6),
		[]domain.SlotStatus{domain.SlotBooked, domain.SlotPaid}, domain.RejectionReschedule).Return(nil)

	invalidated, err := svc.SetAvailability(context.Background(), tutorID, mondayRules(), now)

	require.NoError(t, err)
	require.Len(t, invalidated, 1)
	led.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSetAvailability_CoveredSlotUntouched(t *testing.T) {
	now := time.Now().UTC()
	av := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(av, slots, led)

	start := nextWeekday(now, time.Monday, 10)
	paid := domain.Slot{
		ID: 7, TutorID: tutorID, LearnerID: 20,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotPaid,
	}

	av.On("ReplaceForTutor", mock.Anything, tutorID, mock.Anything).Return(nil)
	slots.On("ListFutureLive", mock.Anything, tutorID, now).Return([]domain.Slot{paid}, nil)

	invalidated, err := svc.SetAvailability(context.Background(), tutorID, mondayRules(), now)

	require.NoError(t, err)
	assert.Empty(t, invalidated)
	slots.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetAvailability_StaleSlotSkipped(t *testing.T) {
	now := time.Now().UTC()
	av := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(av, slots, led)

	start := nextWeekday(now, time.Thursday, 10)
	paid := domain.Slot{
		ID: 8, TutorID: tutorID, LearnerID: 20,
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.SlotPaid,
	}

	av.On("ReplaceForTutor", mock.Anything, tutorID, mock.Anything).Return(nil)
	slots.On("ListFutureLive", mock.Anything, tutorID, now).Return([]domain.Slot{paid}, nil)
	slots.On("Reject", mock.Anything, int64(8), mock.Anything, domain.RejectionReschedule).
		Return(repository.ErrStaleStatus)

	invalidated, err := svc.SetAvailability(context.Background(), tutorID, mondayRules(), now)

	require.NoError(t, err)
	assert.Empty(t, invalidated)
	led.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSetAvailability_RejectsMalformedWindow(t *testing.T) {
	now := time.Now().UTC()
	av := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(av, slots, led)

	rules := []domain.AvailabilityRule{
		{DayOfWeek: 1, OpenTime: "12:00", CloseTime: "09:00"},
	}

	_, err := svc.SetAvailability(context.Background(), tutorID, rules, now)

	assert.ErrorIs(t, err, ErrInvalidWindow)
	av.AssertNotCalled(t, "ReplaceForTutor", mock.Anything, mock.Anything, mock.Anything)
}
