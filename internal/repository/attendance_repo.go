package repository

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

type attendanceModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	SlotID      int64      `gorm:"column:slot_id;uniqueIndex:idx_one_record_per_party"`
	Party       string     `gorm:"column:party;uniqueIndex:idx_one_record_per_party"`
	Attended    *bool      `gorm:"column:attended"`
	EvidenceID  *string    `gorm:"column:evidence_id"`
	RespondedAt *time.Time `gorm:"column:responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (attendanceModel) TableName() string { return "attendance_records" }

func toDomainAttendance(m attendanceModel) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:          m.ID,
		SlotID:      m.SlotID,
		Party:       domain.Party(m.Party),
		Attended:    m.Attended,
		EvidenceID:  m.EvidenceID,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreateEmptyPair seeds the two blank records when a slot becomes paid.
func (r *AttendanceRepository) CreateEmptyPair(ctx context.Context, slotID int64) error {
	records := []attendanceModel{
		{SlotID: slotID, Party: string(domain.PartyTutor)},
		{SlotID: slotID, Party: string(domain.PartyLearner)},
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *AttendanceRepository) GetBySlotParty(ctx context.Context, slotID int64, party domain.Party) (*domain.AttendanceRecord, error) {
	var m attendanceModel
	err := r.db.WithContext(ctx).
		Where("slot_id = ? AND party = ?", slotID, string(party)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := toDomainAttendance(m)
	return &rec, nil
}

// GetPairForSlot returns (tutor, learner) records for the slot.
func (r *AttendanceRepository) GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error) {
	var models []attendanceModel
	err := r.db.WithContext(ctx).Where("slot_id = ?", slotID).Find(&models).Error
	if err != nil {
		return domain.AttendanceRecord{}, domain.AttendanceRecord{}, err
	}
	if len(models) != 2 {
		return domain.AttendanceRecord{}, domain.AttendanceRecord{}, ErrNotFound
	}
	var tutor, learner domain.AttendanceRecord
	for _, m := range models {
		rec := toDomainAttendance(m)
		if rec.Party == domain.PartyTutor {
			tutor = rec
		} else {
			learner = rec
		}
	}
	return tutor, learner, nil
}

// RecordResponse writes a party's terminal claim. The WHERE clause only
// matches a record whose attended is still NULL, so a retried or
// concurrent duplicate affects zero rows and surfaces as ErrStaleStatus
// instead of silently overwriting the first answer.
func (r *AttendanceRepository) RecordResponse(ctx context.Context, slotID int64, party domain.Party, attended bool, evidenceID *string, now time.Time) error {
	return recordResponseTx(r.db.WithContext(ctx), slotID, party, attended, evidenceID, now)
}

func recordResponseTx(tx *gorm.DB, slotID int64, party domain.Party, attended bool, evidenceID *string, now time.Time) error {
	updates := map[string]interface{}{
		"attended":     attended,
		"responded_at": now,
		"updated_at":   now,
	}
	if evidenceID != nil {
		updates["evidence_id"] = *evidenceID
	}
	res := tx.Model(&attendanceModel{}).
		Where("slot_id = ? AND party = ? AND attended IS NULL", slotID, string(party)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
