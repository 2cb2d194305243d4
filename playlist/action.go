package playlist

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown player action")

type ActionKind string

const (
	ConnectDevice ActionKind = "connect"
	SelectPlay    ActionKind = "strategy"
	LoadPlaylist  ActionKind = "load"
	PlaySong      ActionKind = "play"
	PauseSong     ActionKind = "pause"
	NextTrack     ActionKind = "next"
	PreviousTrack ActionKind = "previous"
	PlayAllTracks ActionKind = "play_all"
	EnqueueSong   ActionKind = "enqueue"
)

// Action is one driver-loop input. Arg is the device type, strategy type,
// playlist name or song title depending on Kind.
type Action struct {
	Kind ActionKind `json:"type"`
	Arg  string     `json:"arg,omitempty"`
}

func (p *Player) Step(a Action) error {
	switch a.Kind {
	case ConnectDevice:
		t, err := ParseDeviceType(a.Arg)
		if err != nil {
			return err
		}
		return p.Connect(t)
	case SelectPlay:
		t, err := ParseStrategyType(a.Arg)
		if err != nil {
			return err
		}
		return p.SetStrategy(t)
	case LoadPlaylist:
		return p.Load(a.Arg)
	case PlaySong:
		return p.PlaySong(a.Arg)
	case PauseSong:
		return p.Pause(a.Arg)
	case NextTrack:
		_, err := p.PlayNext()
		return err
	case PreviousTrack:
		_, err := p.PlayPrevious()
		return err
	case PlayAllTracks:
		_, err := p.PlayAll()
		return err
	case EnqueueSong:
		return p.Enqueue(a.Arg)
	}
	return fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
}

// Done is always false; a player can always load another playlist.
func (p *Player) Done() bool {
	return false
}
