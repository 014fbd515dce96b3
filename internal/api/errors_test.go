package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewRequiredError("device_id")
	assert.Equal(t, "invalid argument device_id: is required", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidation(fmt.Errorf("plain")))
	assert.False(t, IsValidation(nil))
}
