package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title string  `json:"title" validate:"required,max=5"`
	Pay   *int    `json:"pay" validate:"required,gte=0"`
	When  string  `json:"when,omitempty" validate:"rfc3339"`
	Note  *string `validate:"omitempty,min=2"`
}

func TestValidateStruct(t *testing.T) {
	pay := 3
	assert.Empty(t, ValidateStruct(&sample{Title: "move", Pay: &pay, When: "2024-05-01T10:00:00Z"}))

	errs := ValidateStruct(&sample{Title: "too long title", When: "tomorrow"})
	assert.Equal(t, "The field 'title' must be no longer than 5 characters.", errs["title"])
	assert.Equal(t, "The field 'pay' is required.", errs["pay"])
	assert.Equal(t, "The field 'when' must be an RFC 3339 timestamp.", errs["when"])

	neg := -1
	note := "x"
	errs = ValidateStruct(sample{Title: "ok", Pay: &neg, Note: &note})
	assert.Equal(t, "The field 'pay' must be greater than or equal to 0.", errs["pay"])
	assert.Equal(t, "The field 'Note' must be at least 2 characters long.", errs["Note"])
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("65f1c0ffee00000000000001", "len=24,hexadecimal"))
	assert.Error(t, Var("not-an-id", "len=24,hexadecimal"))
}
