package schedule

type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week" binding:"gte=0,lte=6"`
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

type SetAvailabilityRequest struct {
	Windows []AvailabilityWindow `json:"windows" binding:"required,dive"`
}
