package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestTimerManager_OneShot(t *testing.T) {
	m := NewTimerManagerWithTick(5 * time.Millisecond)
	defer m.Stop()

	var fired atomic.Int32
	m.AddTimer(10*time.Millisecond, 0, func() { fired.Inc() })
	assert.Equal(t, 1, m.Len())

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, m.Len())
}

func TestTimerManager_Repeating(t *testing.T) {
	m := NewTimerManagerWithTick(5 * time.Millisecond)
	defer m.Stop()

	var fired atomic.Int32
	id := m.AddTimer(0, 10*time.Millisecond, func() { fired.Inc() })

	require.Eventually(t, func() bool { return fired.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.Len())

	m.RemoveTimer(id)
	assert.Zero(t, m.Len())
}

func TestTimerManager_Remove(t *testing.T) {
	m := NewTimerManagerWithTick(5 * time.Millisecond)
	defer m.Stop()

	var fired atomic.Bool
	first := m.AddTimer(20*time.Millisecond, 0, func() { fired.Store(true) })
	second := m.AddTimer(time.Hour, 0, func() {})
	assert.Equal(t, first+1, second)

	m.RemoveTimer(first)
	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 1, m.Len())
}

func TestTimerManager_DueOrder(t *testing.T) {
	m := NewTimerManagerWithTick(time.Hour)
	defer m.Stop()

	var order []int
	m.AddTimer(-1*time.Millisecond, 0, func() { order = append(order, 2) })
	m.AddTimer(-2*time.Millisecond, 0, func() { order = append(order, 1) })
	m.AddTimer(time.Hour, 0, func() { order = append(order, 3) })

	for _, task := range m.due(time.Now()) {
		task.Callback()
	}
	assert.Equal(t, []int{1, 2}, order)
}
