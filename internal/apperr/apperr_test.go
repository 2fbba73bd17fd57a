package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("store resume: %w", Storage("failed to write resume", cause))

	assert.Equal(t, KindStorage, KindOf(err))
	assert.True(t, IsKind(err, KindStorage))
	assert.False(t, IsKind(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to write resume", Message(err))
	assert.Equal(t, "store resume: failed to write resume: disk full", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, Kind(""), KindOf(err))
	assert.False(t, IsKind(nil, KindValidation))
	assert.Empty(t, Message(err))
}

func TestValidationMessage(t *testing.T) {
	err := Validation("Email already exists")

	assert.Equal(t, "Email already exists", err.Error())
	assert.True(t, IsKind(err, KindValidation))
}
