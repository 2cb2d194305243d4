package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter finishes once its total reaches limit.
type counter struct {
	total int
	limit int
}

var errNegative = errors.New("negative")

func (c *counter) Step(n int) error {
	if n < 0 {
		return errNegative
	}
	c.total += n
	return nil
}

func (c *counter) Done() bool {
	return c.total >= c.limit
}

func TestDrive_StopsAtTerminalState(t *testing.T) {
	c := &counter{limit: 5}
	script := NewScript(2, 2, 2, 2)

	steps, err := Drive(t.Context(), c, script)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, 1, script.Remaining())
}

func TestDrive_ExhaustedSourceIsNotAnError(t *testing.T) {
	c := &counter{limit: 100}

	steps, err := Drive(t.Context(), c, NewScript(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.False(t, c.Done())
}

func TestDrive_StepError(t *testing.T) {
	c := &counter{limit: 100}

	steps, err := Drive(t.Context(), c, NewScript(1, -1, 1))
	require.ErrorIs(t, err, errNegative)
	assert.Equal(t, 1, steps)
}

func TestDrive_ChanSource(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	close(ch)

	c := &counter{limit: 100}
	steps, err := Drive(t.Context(), c, Chan[int](ch))
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, 3, c.total)
}

func TestDrive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Drive(ctx, &counter{limit: 1}, NewScript(1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRecorder_Drain(t *testing.T) {
	r := &Recorder{}
	r.Report("a %d", 1)
	r.Report("b")

	assert.Equal(t, "b", r.Last())
	assert.Equal(t, []string{"a 1", "b"}, r.Drain())
	assert.Empty(t, r.Messages)
	assert.Equal(t, "", r.Last())
}

func TestTee(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	r := Tee(a, nil, b)
	r.Report("x=%d", 3)

	assert.Equal(t, []string{"x=3"}, a.Messages)
	assert.Equal(t, []string{"x=3"}, b.Messages)
}
