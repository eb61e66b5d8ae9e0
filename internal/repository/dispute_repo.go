package repository

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain"

	"gorm.io/gorm"
)

type DisputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// openMarker is 1 while the case is pending/submitted and NULL once
// resolved. The unique index over (slot_id, open_marker) then enforces
// "at most one open case per slot" on both Postgres and sqlite, since
// NULLs never collide.
type disputeModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	SlotID     int64      `gorm:"column:slot_id;uniqueIndex:idx_one_open_dispute"`
	OpenMarker *int       `gorm:"column:open_marker;uniqueIndex:idx_one_open_dispute"`
	RaisedBy   int64      `gorm:"column:raised_by"`
	Reason     string     `gorm:"column:reason"`
	Status     string     `gorm:"column:status"`
	Outcome    *string    `gorm:"column:outcome"`
	AdminNote  *string    `gorm:"column:admin_note"`
	ResolvedBy *int64     `gorm:"column:resolved_by"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
	ResolvedAt *time.Time `gorm:"column:resolved_at"`
}

func (disputeModel) TableName() string { return "dispute_cases" }

func toDomainDispute(m disputeModel) *domain.DisputeCase {
	var outcome, note string
	if m.Outcome != nil {
		outcome = *m.Outcome
	}
	if m.AdminNote != nil {
		note = *m.AdminNote
	}
	return &domain.DisputeCase{
		ID:         m.ID,
		SlotID:     m.SlotID,
		RaisedBy:   m.RaisedBy,
		Reason:     m.Reason,
		Status:     domain.DisputeStatus(m.Status),
		Outcome:    domain.DisputeOutcome(outcome),
		AdminNote:  note,
		ResolvedBy: m.ResolvedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}

// File opens a pending case and records the learner's absent claim in the
// same transaction. A second open case on the slot hits the unique index
// and comes back as ErrDuplicate; a learner who already responded fails
// the attendance guard with ErrStaleStatus.
func (r *DisputeRepository) File(ctx context.Context, d *domain.DisputeCase, evidenceID string, now time.Time) error {
	one := 1
	m := disputeModel{
		SlotID:     d.SlotID,
		OpenMarker: &one,
		RaisedBy:   d.RaisedBy,
		Reason:     d.Reason,
		Status:     string(domain.DisputePending),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return recordResponseTx(tx, d.SlotID, domain.PartyLearner, false, &evidenceID, now)
	})
	if err != nil {
		return err
	}
	*d = *toDomainDispute(m)
	return nil
}

// SubmitTutorResponse is the PENDING→SUBMITTED compare-and-set. Exactly
// one of a concurrent contest/agree pair wins; the loser's update matches
// zero rows and gets ErrStaleStatus. When the tutor's attendance claim
// already exists (recorded before the dispute was filed), writeAttendance
// is false and only the case flips.
func (r *DisputeRepository) SubmitTutorResponse(ctx context.Context, disputeID, slotID int64, attended bool, evidenceID *string, writeAttendance bool, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&disputeModel{}).
			Where("id = ? AND status = ?", disputeID, string(domain.DisputePending)).
			Updates(map[string]interface{}{"status": string(domain.DisputeSubmitted), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if writeAttendance {
			return recordResponseTx(tx, slotID, domain.PartyTutor, attended, evidenceID, now)
		}
		return nil
	})
}

// Resolve closes the case. Only an admin decision reaches this method.
// allowPending permits forced resolution of a case the tutor never
// answered once the slot window has closed.
func (r *DisputeRepository) Resolve(ctx context.Context, disputeID int64, outcome domain.DisputeOutcome, note string, adminID int64, allowPending bool, now time.Time) error {
	from := []string{string(domain.DisputeSubmitted)}
	if allowPending {
		from = append(from, string(domain.DisputePending))
	}
	res := r.db.WithContext(ctx).Model(&disputeModel{}).
		Where("id = ? AND status IN ?", disputeID, from).
		Updates(map[string]interface{}{
			"status":      string(domain.DisputeResolved),
			"open_marker": nil,
			"outcome":     string(outcome),
			"admin_note":  note,
			"resolved_by": adminID,
			"resolved_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *DisputeRepository) GetByID(ctx context.Context, id int64) (*domain.DisputeCase, error) {
	var m disputeModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainDispute(m), nil
}

// GetLatestBySlot returns the most recent case for the slot, open or
// resolved, or ErrNotFound when none was ever filed.
func (r *DisputeRepository) GetLatestBySlot(ctx context.Context, slotID int64) (*domain.DisputeCase, error) {
	var m disputeModel
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("created_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainDispute(m), nil
}

// OpenCaseRow pairs an open case with the slot timing the arbiter needs
// to tell a live dispute from one stuck past its window.
type OpenCaseRow struct {
	Dispute domain.DisputeCase
	Slot    domain.Slot
}

func (r *DisputeRepository) ListOpen(ctx context.Context, expiredBefore time.Time, onlyExpired bool) ([]OpenCaseRow, error) {
	q := r.db.WithContext(ctx).
		Table("dispute_cases").
		Joins("JOIN slots ON slots.id = dispute_cases.slot_id").
		Where("dispute_cases.status IN ?", []string{string(domain.DisputePending), string(domain.DisputeSubmitted)})
	if onlyExpired {
		q = q.Where("slots.end_time < ?", expiredBefore)
	}

	var cases []disputeModel
	if err := q.Select("dispute_cases.*").Order("dispute_cases.created_at ASC").Scan(&cases).Error; err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return []OpenCaseRow{}, nil
	}

	slotIDs := make([]int64, 0, len(cases))
	for _, c := range cases {
		slotIDs = append(slotIDs, c.SlotID)
	}
	var slots []slotModel
	if err := r.db.WithContext(ctx).Where("id IN ?", slotIDs).Find(&slots).Error; err != nil {
		return nil, err
	}
	bySlot := make(map[int64]slotModel, len(slots))
	for _, s := range slots {
		bySlot[s.ID] = s
	}

	out := make([]OpenCaseRow, 0, len(cases))
	for _, c := range cases {
		out = append(out, OpenCaseRow{
			Dispute: *toDomainDispute(c),
			Slot:    *toDomainSlot(bySlot[c.SlotID]),
		})
	}
	return out, nil
}
