package payments

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	slots      SlotRepository
	attendance AttendanceRepository
	ledger     PaymentLedger
	notifier   StatusNotifier

	gatewaySecret  string
	meetingURLBase string
	loggerf        func(format string, args ...interface{})
}

func NewService(
	slots SlotRepository,
	attendance AttendanceRepository,
	ledger PaymentLedger,
	notifier StatusNotifier,
	gatewaySecret, meetingURLBase string,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if meetingURLBase == "" {
		meetingURLBase = "https://meet.tutorhub.app"
	}
	return &Service{
		slots:          slots,
		attendance:     attendance,
		ledger:         ledger,
		notifier:       notifier,
		gatewaySecret:  gatewaySecret,
		meetingURLBase: meetingURLBase,
		loggerf:        loggerf,
	}
}

// Confirm applies a verified gateway notification: the slot moves from
// booked to paid, the blank attendance pair is seeded and the charge
// lands on the ledger. Gateways retry notifications, so every step
// tolerates having already happened.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Slot, error) {
	if !s.verifySignature(req) {
		return nil, ErrInvalidSignature
	}

	slot, err := s.slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	meetingURL := fmt.Sprintf("%s/%s", strings.TrimRight(s.meetingURLBase, "/"), uuid.New().String())
	if err := s.slots.MarkPaid(ctx, slot.ID, req.PaymentID, meetingURL); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			if slot.Status == domain.SlotPaid && slot.PaymentID == req.PaymentID {
				// Retried notification for a payment we already applied.
				s.loggerf("level=info msg=duplicate payment notification slot_id=%d payment_id=%s", slot.ID, req.PaymentID)
				return slot, nil
			}
			return nil, ErrNotPayable
		}
		return nil, err
	}
	slot.Status = domain.SlotPaid
	slot.PaymentID = req.PaymentID
	slot.MeetingURL = meetingURL

	if err := s.attendance.CreateEmptyPair(ctx, slot.ID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	err = s.ledger.Append(ctx, &domain.LedgerEntry{
		SlotID:    slot.ID,
		PaymentID: req.PaymentID,
		Type:      domain.LedgerCharge,
		Amount:    req.Amount,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	s.loggerf("level=info msg=slot paid slot_id=%d payment_id=%s amount=%.2f", slot.ID, req.PaymentID, req.Amount)
	if s.notifier != nil {
		s.notifier.NotifySlotStatus(ctx, slot, domain.ViewPaid)
	}
	return slot, nil
}

// ListLedger returns the money trail for a slot.
func (s *Service) ListLedger(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error) {
	return s.ledger.ListBySlot(ctx, slotID)
}

// verifySignature checks md5(slot_id:payment_id:amount:secret), the
// scheme the gateway signs result notifications with.
func (s *Service) verifySignature(req ConfirmRequest) bool {
	payload := strconv.FormatInt(req.SlotID, 10) + ":" + req.PaymentID + ":" +
		strconv.FormatFloat(req.Amount, 'f', 2, 64) + ":" + s.gatewaySecret
	sum := md5.Sum([]byte(payload))
	return strings.EqualFold(hex.EncodeToString(sum[:]), req.Signature)
}
