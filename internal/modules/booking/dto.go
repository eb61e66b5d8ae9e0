package booking

import "time"

type BookSlotRequest struct {
	TutorID       int64     `json:"tutor_id" binding:"required"`
	BookingPlanID int64     `json:"booking_plan_id"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
}
