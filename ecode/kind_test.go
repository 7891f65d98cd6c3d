package ecode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("socket closed")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad limit"), KindValidation},
		{"forbidden", Forbidden("not owner"), KindForbidden},
		{"wrapped not found", fmt.Errorf("get job: %w", NotFound("job does not exist")), KindNotFound},
		{"state", State("job is not assigned"), KindState},
		{"unavailable with cause", Unavailable("storage timeout", cause), KindUnavailable},
		{"plain error", cause, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := Unavailable("job repository unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestKindCode(t *testing.T) {
	assert.Equal(t, NothingFound, KindNotFound.Code())
	assert.Equal(t, ServerErr, KindInternal.Code())
	assert.Equal(t, "Resource not found", Text(KindNotFound.Code()))
	assert.Equal(t, Text(ServerErr), Text(12345))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "title required", FieldIsRequired("title"))
	assert.Equal(t, "required", FieldIsRequired())
	assert.Equal(t, "job does not exist", NotExist("job"))
}
