package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title  string   `label:"title" validate:"required,max=10"`
	Rating *float64 `label:"rating" validate:"omitempty,gte=0,lte=10"`
	Count  int      `validate:"gte=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	r := 7.5
	assert.NoError(t, ValidateStruct(&sample{Title: "Heat", Rating: &r}))
	assert.NoError(t, ValidateStruct(&sample{Title: "Heat"}))
}

func TestValidateStruct_CollectsFieldErrors(t *testing.T) {
	r := 11.0
	err := ValidateStruct(&sample{Title: "", Rating: &r, Count: -1})
	require.Error(t, err)

	var verr *RequestValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors(), 3)

	assert.Equal(t, "title", verr.Errors()[0].Field())
	assert.Equal(t, "required", verr.Errors()[0].Tag())
	assert.Equal(t, "rating", verr.Errors()[1].Field())
	assert.Equal(t, "10", verr.Errors()[1].Param())
	assert.Equal(t, "Count", verr.Errors()[2].Field())

	assert.Equal(t, "title is required; rating must be at most 10; Count must be at least 0", err.Error())
}

func TestValidateStruct_MaxLength(t *testing.T) {
	err := ValidateStruct(&sample{Title: "A very long title"})
	require.Error(t, err)
	assert.Equal(t, "title must be at most 10 characters", err.Error())
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("release year", `must be a whole number, got "abc"`)

	assert.Equal(t, `release year must be a whole number, got "abc"`, err.Error())
	require.Len(t, err.Errors(), 1)
	assert.Equal(t, "parse", err.Errors()[0].Tag())
}
