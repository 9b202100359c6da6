package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpLifecycle(t *testing.T) {
	var op Op[[]string]

	assert.Equal(t, StatusIdle, op.Status())
	assert.False(t, op.Pending())

	op.Start()
	assert.True(t, op.Pending())

	op.Succeed([]string{"a", "b"})
	assert.Equal(t, StatusSuccess, op.Status())
	assert.Equal(t, []string{"a", "b"}, op.Value())
	assert.NoError(t, op.Err())
}

func TestOpFailureKeepsLastValue(t *testing.T) {
	var op Op[int]

	op.Start()
	op.Succeed(42)
	op.Start()
	op.Fail(errors.New("boom"))

	assert.Equal(t, StatusFailure, op.Status())
	assert.Equal(t, 42, op.Value())
	assert.Error(t, op.Err())
}

func TestOpSuccessClearsError(t *testing.T) {
	var op Op[int]

	op.Start()
	op.Fail(errors.New("boom"))
	op.Start()
	op.Succeed(7)

	assert.NoError(t, op.Err())
	assert.Equal(t, 7, op.Value())
}

func TestOpReset(t *testing.T) {
	var op Op[int]

	op.Start()
	op.Succeed(7)
	op.Reset()

	assert.Equal(t, StatusIdle, op.Status())
	assert.Zero(t, op.Value())
	assert.NoError(t, op.Err())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failure", StatusFailure.String())
	assert.Equal(t, "unknown", Status(99).String())
}
