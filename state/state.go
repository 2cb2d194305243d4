package state

import (
	"errors"
	"sync"
)

// StateMachine is the entity side of the skeleton: it owns exactly one
// current state and swaps it when an action produces a different one.
type StateMachine interface {
	ChangeState(state State) error
	Fire(action string, state State) error
	GetCurrentState() State
	AddTransition(from State, to State, condition func() bool) error
	Subscribe(observer Observer)
}

// State is a behaviour object. Implementations hold no entity data; the
// entity is passed into whatever action methods a concrete state set defines.
type State interface {
	OnEnter()
	OnExit()
	GetID() string
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine is a guarded, observable StateMachine.
type BaseStateMachine struct {
	name         string
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	observers    []Observer
	mutex        sync.RWMutex
}

func NewBaseStateMachine(name string, initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		name:         name,
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

// Name identifies the machine in transitions and metrics.
func (sm *BaseStateMachine) Name() string {
	return sm.name
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	return sm.Fire("", newState)
}

// Fire installs newState as the result of action. Returning the current
// state (same ID) is a stay: no exit/enter hooks run, but observers still
// see the transition.
func (sm *BaseStateMachine) Fire(action string, newState State) error {
	sm.mutex.Lock()

	currentID := sm.currentState.GetID()
	newID := newState.GetID()

	if conditions, exists := sm.transitions[currentID]; exists {
		if condition, exists := conditions[newID]; exists {
			if condition != nil && !condition() {
				sm.mutex.Unlock()
				return ErrTransitionNotAllowed
			}
		}
	}

	if currentID != newID {
		sm.currentState.OnExit()
		sm.currentState = newState
		sm.currentState.OnEnter()
	}

	t := Transition{Machine: sm.name, Action: action, From: currentID, To: newID}
	observers := make([]Observer, len(sm.observers))
	copy(observers, sm.observers)
	sm.mutex.Unlock()

	for _, o := range observers {
		o.OnTransition(t)
	}
	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(from State, to State, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	fromID := from.GetID()
	toID := to.GetID()

	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// Subscribe registers an observer for every subsequent transition.
func (sm *BaseStateMachine) Subscribe(observer Observer) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.observers = append(sm.observers, observer)
}

// Base gives concrete states an ID and no-op hooks.
type Base struct {
	ID string
}

func (s *Base) GetID() string {
	return s.ID
}

func (s *Base) OnEnter() {}

func (s *Base) OnExit() {}
