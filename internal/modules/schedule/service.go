package schedule

import (
	"context"
	"errors"
	"log"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Service struct {
	availability AvailabilityRepository
	slots        SlotRepository
	ledger       PaymentLedger
	notifier     StatusNotifier
}

func NewService(
	availability AvailabilityRepository,
	slots SlotRepository,
	ledger PaymentLedger,
	notifier StatusNotifier,
) *Service {
	return &Service{
		availability: availability,
		slots:        slots,
		ledger:       ledger,
		notifier:     notifier,
	}
}

// SetAvailability replaces the tutor's weekly windows and invalidates
// every future booked or paid slot the new windows no longer cover.
// Invalidated slots are rejected with the reschedule cause and paid ones
// get their money mirrored back. Slots already started are left alone.
func (s *Service) SetAvailability(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule, now time.Time) ([]domain.Slot, error) {
	for i := range rules {
		rules[i].TutorID = tutorID
		if err := validateRule(rules[i]); err != nil {
			return nil, err
		}
	}

	if err := s.availability.ReplaceForTutor(ctx, tutorID, rules); err != nil {
		return nil, err
	}

	live, err := s.slots.ListFutureLive(ctx, tutorID, now)
	if err != nil {
		return nil, err
	}

	var invalidated []domain.Slot
	for _, slot := range live {
		if covered(rules, slot) {
			continue
		}
		err := s.slots.Reject(ctx, slot.ID,
			[]domain.SlotStatus{domain.SlotBooked, domain.SlotPaid}, domain.RejectionReschedule)
		if err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				// The slot moved on under us (completed, already
				// rejected). Nothing to invalidate anymore.
				continue
			}
			return invalidated, err
		}

		if slot.Status == domain.SlotPaid {
			if err := s.appendRefund(ctx, slot); err != nil {
				return invalidated, err
			}
		}

		slot.Status = domain.SlotRejected
		slot.RejectionCause = domain.RejectionReschedule
		invalidated = append(invalidated, slot)
		if s.notifier != nil {
			s.notifier.NotifySlotStatus(ctx, &slot, domain.ViewCancelledReschedule)
		}
		log.Printf("level=info msg=slot invalidated by reschedule slot_id=%d tutor_id=%d", slot.ID, tutorID)
	}

	return invalidated, nil
}

func (s *Service) GetAvailability(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error) {
	return s.availability.ListByTutor(ctx, tutorID)
}

func (s *Service) appendRefund(ctx context.Context, slot domain.Slot) error {
	entries, err := s.ledger.ListBySlot(ctx, slot.ID)
	if err != nil {
		return err
	}
	var amount float64
	for _, e := range entries {
		if e.Type == domain.LedgerCharge {
			amount = e.Amount
			break
		}
	}
	err = s.ledger.Append(ctx, &domain.LedgerEntry{
		SlotID:    slot.ID,
		PaymentID: slot.PaymentID,
		Type:      domain.LedgerRefund,
		Amount:    amount,
		Cause:     string(domain.RejectionReschedule),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

func covered(rules []domain.AvailabilityRule, slot domain.Slot) bool {
	for _, r := range rules {
		if r.Covers(slot.StartTime, slot.EndTime) {
			return true
		}
	}
	return false
}

// validateRule checks what the field tags cannot: the clock times must
// parse and open must precede close.
func validateRule(r domain.AvailabilityRule) error {
	open, err := time.Parse("15:04", r.OpenTime)
	if err != nil {
		return ErrInvalidWindow
	}
	closeT, err := time.Parse("15:04", r.CloseTime)
	if err != nil {
		return ErrInvalidWindow
	}
	if !open.Before(closeT) {
		return ErrInvalidWindow
	}
	return nil
}
