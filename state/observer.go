package state

// Transition records one action applied to a machine. From and To are
// state IDs; they are equal when the action left the machine where it was.
type Transition struct {
	Machine string
	Action  string
	From    string
	To      string
}

// Stayed reports whether the action was a no-op transition.
func (t Transition) Stayed() bool {
	return t.From == t.To
}

// Observer is notified after every transition, outside the machine's lock.
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t Transition)

func (f ObserverFunc) OnTransition(t Transition) {
	f(t)
}
