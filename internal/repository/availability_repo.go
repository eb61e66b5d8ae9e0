package repository

import (
	"context"
	"time"

	"tutorhub/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

type availabilityModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TutorID   int64     `gorm:"column:tutor_id;index"`
	DayOfWeek int       `gorm:"column:day_of_week"`
	OpenTime  string    `gorm:"column:open_time"`
	CloseTime string    `gorm:"column:close_time"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (availabilityModel) TableName() string { return "availability_rules" }

func toDomainAvailability(m availabilityModel) domain.AvailabilityRule {
	return domain.AvailabilityRule{
		ID:        m.ID,
		TutorID:   m.TutorID,
		DayOfWeek: m.DayOfWeek,
		OpenTime:  m.OpenTime,
		CloseTime: m.CloseTime,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error) {
	var models []availabilityModel
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("day_of_week ASC, open_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AvailabilityRule, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainAvailability(m))
	}
	return out, nil
}

// ReplaceForTutor swaps the tutor's whole weekly schedule in one
// transaction.
func (r *AvailabilityRepository) ReplaceForTutor(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tutor_id = ?", tutorID).Delete(&availabilityModel{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		models := make([]availabilityModel, 0, len(rules))
		for _, rule := range rules {
			models = append(models, availabilityModel{
				TutorID:   tutorID,
				DayOfWeek: rule.DayOfWeek,
				OpenTime:  rule.OpenTime,
				CloseTime: rule.CloseTime,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		return tx.Create(&models).Error
	})
}
