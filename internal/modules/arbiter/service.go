package arbiter

import (
	"context"
	"errors"
	"log"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Service struct {
	disputes   DisputeRepository
	slots      SlotRepository
	attendance AttendanceReader
	ledger     PaymentLedger
	notifier   StatusNotifier
}

func NewService(
	disputes DisputeRepository,
	slots SlotRepository,
	attendance AttendanceReader,
	ledger PaymentLedger,
	notifier StatusNotifier,
) *Service {
	return &Service{
		disputes:   disputes,
		slots:      slots,
		attendance: attendance,
		ledger:     ledger,
		notifier:   notifier,
	}
}

// Decide closes a dispute with the admin's verdict. A submitted case is
// decidable at any time; a pending one only after the slot window has
// closed without a tutor answer. Resolution and the slot transition both
// go through conditional updates, so a concurrent second admin loses
// with ErrAlreadyResolved.
func (s *Service) Decide(ctx context.Context, adminID, disputeID int64, outcome domain.DisputeOutcome, note string, now time.Time) (*domain.DisputeCase, error) {
	if outcome != domain.OutcomeRefund && outcome != domain.OutcomeDeny {
		return nil, ErrInvalidOutcome
	}

	dcase, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, dcase.SlotID)
	if err != nil {
		return nil, err
	}

	tutor, learner, err := s.attendance.GetPairForSlot(ctx, dcase.SlotID)
	if err != nil {
		return nil, err
	}

	if dcase.Status == domain.DisputeResolved {
		// A failure between the case resolution and the slot mutation
		// leaves the verdict recorded but unapplied. Re-applying here
		// lets the admin's retry finish the job instead of wedging.
		if _, err := s.applyOutcome(ctx, dcase, slot, tutor); err != nil {
			return nil, err
		}
		if dcase.Outcome == outcome {
			return dcase, nil
		}
		return nil, ErrAlreadyResolved
	}

	allowPending := dcase.Status == domain.DisputePending
	if allowPending && !domain.WindowClosed(slot, now) {
		return nil, ErrWindowStillOpen
	}

	if _, perr := domain.Project(slot, tutor, learner, dcase); perr != nil {
		log.Printf("level=fatal msg=slot frozen on invariant violation slot_id=%d err=%q", slot.ID, perr)
		return nil, perr
	}

	if err := s.disputes.Resolve(ctx, disputeID, outcome, note, adminID, allowPending, now); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}

	dcase.Status = domain.DisputeResolved
	dcase.Outcome = outcome
	dcase.AdminNote = note
	dcase.ResolvedBy = &adminID
	dcase.ResolvedAt = &now

	view, err := s.applyOutcome(ctx, dcase, slot, tutor)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifySlotStatus(ctx, slot, view)
	}
	return dcase, nil
}

// applyOutcome applies a resolved verdict's slot and ledger effects.
// Every step tolerates having already run, so a retry after a partial
// failure converges on the fully applied state.
func (s *Service) applyOutcome(ctx context.Context, dcase *domain.DisputeCase, slot *domain.Slot, tutor domain.AttendanceRecord) (domain.SlotView, error) {
	switch dcase.Outcome {
	case domain.OutcomeRefund:
		err := s.slots.Reject(ctx, slot.ID, []domain.SlotStatus{domain.SlotPaid}, domain.RejectionDisputed)
		if err != nil && !errors.Is(err, repository.ErrStaleStatus) {
			return "", err
		}
		slot.Status = domain.SlotRejected
		slot.RejectionCause = domain.RejectionDisputed
		if err := s.appendRefund(ctx, slot); err != nil {
			return "", err
		}
		return domain.ViewRefundedDisputed, nil

	case domain.OutcomeDeny:
		// A contesting tutor gets the session credited. Without a tutor
		// answer the money was already captured, so the slot stays paid.
		if tutor.AttendedTrue() {
			err := s.slots.TransitionStatus(ctx, slot.ID, []domain.SlotStatus{domain.SlotPaid}, domain.SlotCompleted)
			if err != nil && !errors.Is(err, repository.ErrStaleStatus) {
				return "", err
			}
			slot.Status = domain.SlotCompleted
		}
		return domain.ViewDisputeDenied, nil
	}
	return "", ErrInvalidOutcome
}

// appendRefund mirrors the charge amount back. The unique index on
// (payment_id, type) makes a replay a no-op.
func (s *Service) appendRefund(ctx context.Context, slot *domain.Slot) error {
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
		Cause:     string(domain.RejectionDisputed),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

// ListOpen returns open cases for the admin queue. With onlyExpired set
// it narrows to cases whose slot window has already closed, the ones a
// forced resolution is legal for.
func (s *Service) ListOpen(ctx context.Context, now time.Time, onlyExpired bool) ([]repository.OpenCaseRow, error) {
	return s.disputes.ListOpen(ctx, now, onlyExpired)
}
