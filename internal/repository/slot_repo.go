package repository

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain"

	"gorm.io/gorm"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) DB() *gorm.DB { return r.db }

type slotModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	BookingPlanID  int64     `gorm:"column:booking_plan_id"`
	TutorID        int64     `gorm:"column:tutor_id;index"`
	LearnerID      int64     `gorm:"column:learner_id;index"`
	StartTime      time.Time `gorm:"column:start_time"`
	EndTime        time.Time `gorm:"column:end_time"`
	Status         string    `gorm:"column:status"`
	RejectionCause *string   `gorm:"column:rejection_cause"`
	MeetingURL     *string   `gorm:"column:meeting_url"`
	PaymentID      *string   `gorm:"column:payment_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (slotModel) TableName() string { return "slots" }

func toDomainSlot(m slotModel) *domain.Slot {
	var cause, meetingURL, paymentID string
	if m.RejectionCause != nil {
		cause = *m.RejectionCause
	}
	if m.MeetingURL != nil {
		meetingURL = *m.MeetingURL
	}
	if m.PaymentID != nil {
		paymentID = *m.PaymentID
	}

	return &domain.Slot{
		ID:             m.ID,
		BookingPlanID:  m.BookingPlanID,
		TutorID:        m.TutorID,
		LearnerID:      m.LearnerID,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         domain.SlotStatus(m.Status),
		RejectionCause: domain.RejectionCause(cause),
		MeetingURL:     meetingURL,
		PaymentID:      paymentID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toSlotModel(s *domain.Slot) slotModel {
	m := slotModel{
		ID:            s.ID,
		BookingPlanID: s.BookingPlanID,
		TutorID:       s.TutorID,
		LearnerID:     s.LearnerID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.RejectionCause != "" {
		v := string(s.RejectionCause)
		m.RejectionCause = &v
	}
	if s.MeetingURL != "" {
		v := s.MeetingURL
		m.MeetingURL = &v
	}
	if s.PaymentID != "" {
		v := s.PaymentID
		m.PaymentID = &v
	}
	return m
}

// Create inserts the slot only when no live slot of the tutor overlaps
// its interval. Guard and insert run as one statement so two racing
// bookings cannot both land; the loser sees ErrDuplicate.
func (r *SlotRepository) Create(ctx context.Context, s *domain.Slot) error {
	m := toSlotModel(s)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt

	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO slots (booking_plan_id, tutor_id, learner_id, start_time, end_time,
			status, rejection_cause, meeting_url, payment_id, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM slots
			WHERE tutor_id = ?
			  AND status NOT IN (?, ?)
			  AND start_time < ? AND end_time > ?
		)`,
		m.BookingPlanID, m.TutorID, m.LearnerID, m.StartTime, m.EndTime,
		m.Status, m.RejectionCause, m.MeetingURL, m.PaymentID, m.CreatedAt, m.UpdatedAt,
		m.TutorID, string(domain.SlotCancelled), string(domain.SlotRejected),
		m.EndTime, m.StartTime,
	)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}

	var inserted slotModel
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND learner_id = ? AND start_time = ?", m.TutorID, m.LearnerID, m.StartTime).
		Order("id DESC").
		First(&inserted).Error
	if err != nil {
		return err
	}
	*s = *toDomainSlot(inserted)
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	var m slotModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainSlot(m), nil
}

// CheckAvailability reports whether the tutor has no live slot overlapping
// [start, end). Rejected and cancelled slots do not block the interval.
func (r *SlotRepository) CheckAvailability(ctx context.Context, tutorID int64, start, end time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("slots").
		Where("tutor_id = ?", tutorID).
		Where("status NOT IN ?", []string{string(domain.SlotCancelled), string(domain.SlotRejected)}).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// TransitionStatus is a compare-and-set on slot.status. It matches only a
// slot currently in one of fromStatuses; zero rows means the caller saw a
// stale status and must re-read, never overwrite.
func (r *SlotRepository) TransitionStatus(ctx context.Context, slotID int64, from []domain.SlotStatus, to domain.SlotStatus) error {
	fromStrs := make([]string, 0, len(from))
	for _, f := range from {
		fromStrs = append(fromStrs, string(f))
	}
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND status IN ?", slotID, fromStrs).
		Updates(map[string]interface{}{"status": string(to), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// MarkPaid promotes a booked slot after a verified payment callback.
func (r *SlotRepository) MarkPaid(ctx context.Context, slotID int64, paymentID, meetingURL string) error {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND status = ?", slotID, string(domain.SlotBooked)).
		Updates(map[string]interface{}{
			"status":      string(domain.SlotPaid),
			"payment_id":  paymentID,
			"meeting_url": meetingURL,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Reject moves a slot to rejected with its cause tag. Guarded on the
// current status so a reschedule cancellation and a dispute refund can
// never stomp on each other.
func (r *SlotRepository) Reject(ctx context.Context, slotID int64, from []domain.SlotStatus, cause domain.RejectionCause) error {
	fromStrs := make([]string, 0, len(from))
	for _, f := range from {
		fromStrs = append(fromStrs, string(f))
	}
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND status IN ?", slotID, fromStrs).
		Updates(map[string]interface{}{
			"status":          string(domain.SlotRejected),
			"rejection_cause": string(cause),
			"updated_at":      time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// CompleteIfBothAttended closes the happy path in one conditional
// statement: a paid slot with two affirmative attendance records and no
// open dispute becomes completed. Zero rows is not an error; the second
// party simply has not answered yet, or a dispute is in flight.
func (r *SlotRepository) CompleteIfBothAttended(ctx context.Context, slotID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE slots
SET status = ?, updated_at = ?
WHERE id = ?
  AND status = ?
  AND (SELECT COUNT(1) FROM attendance_records ar WHERE ar.slot_id = slots.id AND ar.attended = ?) = 2
  AND NOT EXISTS (
    SELECT 1 FROM dispute_cases dc
    WHERE dc.slot_id = slots.id AND dc.status IN (?, ?)
  )`,
		string(domain.SlotCompleted), time.Now(), slotID, string(domain.SlotPaid), true,
		string(domain.DisputePending), string(domain.DisputeSubmitted))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

type SlotFilter struct {
	TutorID   int64
	LearnerID int64
	From      time.Time
	To        time.Time
	Statuses  []domain.SlotStatus
}

func (r *SlotRepository) List(ctx context.Context, f SlotFilter) ([]domain.Slot, error) {
	q := r.db.WithContext(ctx).Table("slots")
	if f.TutorID != 0 {
		q = q.Where("tutor_id = ?", f.TutorID)
	}
	if f.LearnerID != 0 {
		q = q.Where("learner_id = ?", f.LearnerID)
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", f.To)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}

	var models []slotModel
	if err := q.Order("start_time ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Slot, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainSlot(m))
	}
	return out, nil
}

// ListFutureLive returns the tutor's booked/paid slots that have not
// started yet. Used when availability edits invalidate future slots.
func (r *SlotRepository) ListFutureLive(ctx context.Context, tutorID int64, now time.Time) ([]domain.Slot, error) {
	var models []slotModel
	err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND start_time > ? AND status IN ?",
			tutorID, now, []string{string(domain.SlotBooked), string(domain.SlotPaid)}).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Slot, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainSlot(m))
	}
	return out, nil
}
