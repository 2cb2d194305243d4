package lazy

import (
	"testing"

	"github.com/alitto/pond/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestOf_ConstructsOnFirstGet(t *testing.T) {
	var calls atomic.Int32
	v := New(func() string {
		calls.Inc()
		return "instance"
	})

	assert.False(t, v.Initialized())
	assert.Equal(t, "instance", v.Get())
	assert.Equal(t, "instance", v.Get())
	assert.True(t, v.Initialized())
	assert.Equal(t, int32(1), calls.Load())
}

func TestOf_ConcurrentFirstAccess(t *testing.T) {
	type service struct{ id int }

	var calls atomic.Int32
	v := New(func() *service {
		calls.Inc()
		return &service{id: 7}
	})

	pool := pond.NewPool(16)
	results := make([]*service, 200)
	for i := range results {
		pool.Submit(func() {
			results[i] = v.Get()
		})
	}
	pool.StopAndWait()

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, int64(1), v.Builds())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
