package payments

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"testing"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) MarkPaid(ctx context.Context, slotID int64, paymentID, meetingURL string) error {
	args := m.Called(ctx, slotID, paymentID, meetingURL)
	return args.Error(0)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) CreateEmptyPair(ctx context.Context, slotID int64) error {
	args := m.Called(ctx, slotID)
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

const testSecret = "gw-secret"

func sign(slotID int64, paymentID string, amount float64) string {
	payload := strconv.FormatInt(slotID, 10) + ":" + paymentID + ":" +
		strconv.FormatFloat(amount, 'f', 2, 64) + ":" + testSecret
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func bookedSlot() *domain.Slot {
	return &domain.Slot{ID: 1, TutorID: 10, LearnerID: 20, Status: domain.SlotBooked}
}

func newTestService(slots *MockSlotRepository, att *MockAttendanceRepository, led *MockPaymentLedger) *Service {
	return NewService(slots, att, led, nil, testSecret, "", nil)
}

func TestConfirm_PromotesBookedSlot(t *testing.T) {
	slots := new(MockSlotRepository)
	att := new(MockAttendanceRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(slots, att, led)

	slots.On("GetByID", mock.Anything, int64(1)).Return(bookedSlot(), nil)
	slots.On("MarkPaid", mock.Anything, int64(1), "pay-1", mock.Anything).Return(nil)
	att.On("CreateEmptyPair", mock.Anything, int64(1)).Return(nil)
	led.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Type == domain.LedgerCharge && e.Amount == 45 && e.PaymentID == "pay-1"
	})).Return(nil)

	slot, err := svc.Confirm(context.Background(), ConfirmRequest{
		SlotID: 1, PaymentID: "pay-1", Amount: 45, Signature: sign(1, "pay-1", 45),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SlotPaid, slot.Status)
	assert.NotEmpty(t, slot.MeetingURL)
	led.AssertExpectations(t)
}

func TestConfirm_BadSignature(t *testing.T) {
	slots := new(MockSlotRepository)
	att := new(MockAttendanceRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(slots, att, led)

	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		SlotID: 1, PaymentID: "pay-1", Amount: 45, Signature: "deadbeef",
	})

	assert.ErrorIs(t, err, ErrInvalidSignature)
	slots.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestConfirm_RetriedNotificationIsIdempotent(t *testing.T) {
	slots := new(MockSlotRepository)
	att := new(MockAttendanceRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(slots, att, led)

	paid := bookedSlot()
	paid.Status = domain.SlotPaid
	paid.PaymentID = "pay-1"
	slots.On("GetByID", mock.Anything, int64(1)).Return(paid, nil)
	slots.On("MarkPaid", mock.Anything, int64(1), "pay-1", mock.Anything).Return(repository.ErrStaleStatus)

	slot, err := svc.Confirm(context.Background(), ConfirmRequest{
		SlotID: 1, PaymentID: "pay-1", Amount: 45, Signature: sign(1, "pay-1", 45),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SlotPaid, slot.Status)
	led.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestConfirm_WrongStateRejected(t *testing.T) {
	slots := new(MockSlotRepository)
	att := new(MockAttendanceRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(slots, att, led)

	cancelled := bookedSlot()
	cancelled.Status = domain.SlotCancelled
	slots.On("GetByID", mock.Anything, int64(1)).Return(cancelled, nil)
	slots.On("MarkPaid", mock.Anything, int64(1), "pay-2", mock.Anything).Return(repository.ErrStaleStatus)

	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		SlotID: 1, PaymentID: "pay-2", Amount: 45, Signature: sign(1, "pay-2", 45),
	})

	assert.ErrorIs(t, err, ErrNotPayable)
}

func TestConfirm_DuplicatePairAndChargeTolerated(t *testing.T) {
	slots := new(MockSlotRepository)
	att := new(MockAttendanceRepository)
	led := new(MockPaymentLedger)
	svc := newTestService(slots, att, led)

	slots.On("GetByID", mock.Anything, int64(1)).Return(bookedSlot(), nil)
	slots.On("MarkPaid", mock.Anything, int64(1), "pay-1", mock.Anything).Return(nil)
	att.On("CreateEmptyPair", mock.Anything, int64(1)).Return(repository.ErrDuplicate)
	led.On("Append", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		SlotID: 1, PaymentID: "pay-1", Amount: 45, Signature: sign(1, "pay-1", 45),
	})

	assert.NoError(t, err)
}
