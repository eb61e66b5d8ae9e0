package domain

import "time"

// AvailabilityRule is one recurring weekly window in which a tutor
// accepts bookings. Times are "15:04" strings in UTC, same day.
type AvailabilityRule struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"tutor_id"`
	DayOfWeek int       `json:"day_of_week" validate:"gte=0,lte=6"`
	OpenTime  string    `json:"open_time" validate:"required"`
	CloseTime string    `json:"close_time" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Covers reports whether the rule fully contains the [start,end) interval.
// Both instants must fall on the rule's weekday.
func (a AvailabilityRule) Covers(start, end time.Time) bool {
	if int(start.UTC().Weekday()) != a.DayOfWeek || int(end.UTC().Weekday()) != a.DayOfWeek {
		return false
	}
	open, err := time.Parse("15:04", a.OpenTime)
	if err != nil {
		return false
	}
	closeT, err := time.Parse("15:04", a.CloseTime)
	if err != nil {
		return false
	}
	day := start.UTC()
	lo := time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, time.UTC)
	hi := time.Date(day.Year(), day.Month(), day.Day(), closeT.Hour(), closeT.Minute(), 0, 0, time.UTC)
	return !start.UTC().Before(lo) && !end.UTC().After(hi)
}
