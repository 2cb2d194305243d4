package playlist

import (
	"errors"

	"github.com/wfunc/turnsim/state"
)

const (
	Idle    = "IDLE"
	Playing = "PLAYING"
	Paused  = "PAUSED"
)

var (
	ErrNothingPlaying = errors.New("No song is currently playing to pause.")
	ErrAlreadyPaused  = errors.New("Song is already paused.")
)

// Engine tracks the current song and whether it is paused. Playing the
// paused song again resumes it.
type Engine struct {
	fsm     *state.BaseStateMachine
	idle    state.State
	playing state.State
	paused  state.State

	current  *Song
	reporter state.Reporter
}

func NewEngine(reporter state.Reporter) *Engine {
	if reporter == nil {
		reporter = state.Discard
	}
	e := &Engine{
		idle:     &state.Base{ID: Idle},
		playing:  &state.Base{ID: Playing},
		paused:   &state.Base{ID: Paused},
		reporter: reporter,
	}
	e.fsm = state.NewBaseStateMachine("playlist", e.idle)
	return e
}

func (e *Engine) Subscribe(o state.Observer) {
	e.fsm.Subscribe(o)
}

func (e *Engine) State() string {
	return e.fsm.GetCurrentState().GetID()
}

func (e *Engine) CurrentTitle() string {
	if e.current == nil {
		return ""
	}
	return e.current.Title
}

func (e *Engine) Play(d Device, song *Song) error {
	if song == nil {
		return ErrNilSong
	}

	if e.State() == Paused && song == e.current {
		e.reporter.Report("Resuming song: %s", song.Title)
	} else {
		e.current = song
		e.reporter.Report("Playing song: %s", song.Title)
	}
	d.PlayAudio(song)
	return e.fsm.Fire("play", e.playing)
}

func (e *Engine) Pause() error {
	switch e.State() {
	case Idle:
		return ErrNothingPlaying
	case Paused:
		return ErrAlreadyPaused
	}
	e.reporter.Report("Pausing song: %s", e.current.Title)
	return e.fsm.Fire("pause", e.paused)
}
