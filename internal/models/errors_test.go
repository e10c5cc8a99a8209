package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("MessageOnly", func(t *testing.T) {
		err := NewAppError(ErrCodeStateConflict, "cannot %s milestone", "claim")
		assert.Equal(t, "state_conflict: cannot claim milestone", err.Error())
	})

	t.Run("Wrapped", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapAppError(ErrCodeExternalProgram, cause, "transaction rejected")

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestCodeOf(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		err := NewAppError(ErrCodeInsufficientFunds, "short")
		assert.Equal(t, ErrCodeInsufficientFunds, CodeOf(err))
	})

	t.Run("BuriedInWrapChain", func(t *testing.T) {
		inner := NewAppError(ErrCodeUserRejected, "declined")
		wrapped := fmt.Errorf("submitting: %w", inner)
		assert.Equal(t, ErrCodeUserRejected, CodeOf(wrapped))
	})

	t.Run("UnclassifiedDefaultsToExternal", func(t *testing.T) {
		assert.Equal(t, ErrCodeExternalProgram, CodeOf(errors.New("anything")))
	})
}
