package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Interval int    `json:"interval" validate:"gt=0"`
	Level    string `json:"level" validate:"oneof=debug info warn error"`
}

func TestValidateStructValid(t *testing.T) {
	errs := ValidateStruct(&sample{Name: "x", Interval: 5, Level: "info"})
	assert.Empty(t, errs)
}

func TestValidateStructInvalid(t *testing.T) {
	errs := ValidateStruct(&sample{Interval: 0, Level: "loud"})

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "interval")
	assert.Contains(t, errs, "level")
	assert.Contains(t, errs["name"], "required")
}
