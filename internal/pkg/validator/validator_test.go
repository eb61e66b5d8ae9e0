package validator

import (
	"testing"

	"tutorhub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AvailabilityRuleBounds(t *testing.T) {
	bad := domain.AvailabilityRule{DayOfWeek: 9, OpenTime: "09:00", CloseTime: "12:00"}
	errs := Validate(&bad)
	assert.Equal(t, "lte", errs["dayofweek"])

	good := domain.AvailabilityRule{DayOfWeek: 2, OpenTime: "09:00", CloseTime: "12:00"}
	assert.Nil(t, Validate(&good))
}

func TestValidate_MissingTimes(t *testing.T) {
	r := domain.AvailabilityRule{DayOfWeek: 1}
	errs := Validate(&r)
	assert.Equal(t, "required", errs["opentime"])
	assert.Equal(t, "required", errs["closetime"])
}
