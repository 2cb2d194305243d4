// Package lazy holds process-wide values that are constructed at most once,
// on first access, no matter how many goroutines race for them.
package lazy

import (
	"sync"

	"go.uber.org/atomic"
)

// Of is a lazily constructed value.
type Of[T any] struct {
	create      func() T
	once        sync.Once
	value       T
	initialized atomic.Bool
	builds      atomic.Int64
}

// New returns a value whose constructor runs on the first Get.
func New[T any](create func() T) *Of[T] {
	return &Of[T]{create: create}
}

// Get returns the value, constructing it if this is the first call.
func (l *Of[T]) Get() T { //nolint:ireturn
	l.once.Do(func() {
		if l.create != nil {
			l.value = l.create()
			l.builds.Inc()
			l.create = nil
		}
		l.initialized.Store(true)
	})
	return l.value
}

// Initialized reports whether Get has run the constructor.
func (l *Of[T]) Initialized() bool {
	return l.initialized.Load()
}

// Builds reports how many times the constructor ran. It is never above one.
func (l *Of[T]) Builds() int64 {
	return l.builds.Load()
}
