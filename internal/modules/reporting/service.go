package reporting

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Summary struct {
	TutorID int64                   `json:"tutor_id"`
	From    time.Time               `json:"from"`
	To      time.Time               `json:"to"`
	Total   int                     `json:"total"`
	Frozen  int                     `json:"frozen"`
	ByView  map[domain.SlotView]int `json:"by_view"`
}

type Service struct {
	slots      SlotRepository
	attendance AttendanceRepository
	disputes   DisputeReader
}

func NewService(slots SlotRepository, attendance AttendanceRepository, disputes DisputeReader) *Service {
	return &Service{slots: slots, attendance: attendance, disputes: disputes}
}

// Summarize counts a tutor's slots in a date range by their projected
// view. Raw status columns never reach the report; every slot goes
// through the projection, and ones it refuses are counted as frozen
// instead of guessed at.
func (s *Service) Summarize(ctx context.Context, tutorID int64, from, to time.Time) (*Summary, error) {
	slots, err := s.slots.List(ctx, repository.SlotFilter{TutorID: tutorID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		TutorID: tutorID,
		From:    from,
		To:      to,
		ByView:  make(map[domain.SlotView]int),
	}

	for i := range slots {
		slot := slots[i]
		sum.Total++

		tutor, learner, err := s.attendance.GetPairForSlot(ctx, slot.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		dcase, err := s.disputes.GetLatestBySlot(ctx, slot.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		view, err := domain.Project(&slot, tutor, learner, dcase)
		if err != nil {
			sum.Frozen++
			continue
		}
		sum.ByView[view]++
	}

	return sum, nil
}
