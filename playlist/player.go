package playlist

import (
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/lazy"
	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/state"
)

var (
	ErrUnknownDevice = errors.New("unknown device type")
	ErrNoDevice      = errors.New("No audio device connected.")
	ErrNoStrategy    = errors.New("Play strategy not set before loading.")
	ErrNotLoaded     = errors.New("No playlist loaded.")
	ErrNotPlaying    = errors.New("not currently playing")
)

// Player is the facade the console and network drivers talk to. It owns
// one instance of each strategy and switches between them, so a strategy
// keeps its position until a playlist is loaded into it again.
type Player struct {
	library   *Library
	playlists *Manager
	engine    *Engine
	device    Device

	strategies map[StrategyType]Strategy
	strategy   Strategy
	loaded     *Playlist

	reporter state.Reporter
}

var defaultPlayer = lazy.New(func() *Player {
	return NewPlayer(DefaultManager(), &Library{}, nil, nil)
})

// Default is the process-wide player, backed by DefaultManager.
func Default() *Player {
	return defaultPlayer.Get()
}

// NewPlayer wires a player to its playlists and song library. src feeds
// the random strategy; nil seeds one from the clock.
func NewPlayer(playlists *Manager, library *Library, src rng.Source, reporter state.Reporter) *Player {
	if reporter == nil {
		reporter = state.Discard
	}
	if playlists == nil {
		playlists = NewManager()
	}
	if library == nil {
		library = &Library{}
	}
	return &Player{
		library:   library,
		playlists: playlists,
		engine:    NewEngine(reporter),
		strategies: map[StrategyType]Strategy{
			SequentialType:  NewSequential(),
			RandomType:      NewRandom(src),
			CustomQueueType: NewCustomQueue(),
		},
		reporter: reporter,
	}
}

func (p *Player) Library() *Library   { return p.library }
func (p *Player) Playlists() *Manager { return p.playlists }
func (p *Player) Engine() *Engine     { return p.engine }

// AddToPlaylist looks title up in the library and appends it to the
// named playlist.
func (p *Player) AddToPlaylist(name, title string) error {
	song, err := p.library.Find(title)
	if err != nil {
		return err
	}
	return p.playlists.AddSong(name, song)
}

func (p *Player) Connect(t DeviceType) error {
	d, err := NewDevice(t, p.reporter)
	if err != nil {
		return err
	}
	p.device = d
	switch t {
	case Bluetooth:
		p.reporter.Report("Bluetooth device connected")
	case Wired:
		p.reporter.Report("Wired device connected")
	case Headphones:
		p.reporter.Report("Headphones connected")
	}
	return nil
}

func (p *Player) Device() Device {
	return p.device
}

func (p *Player) SetStrategy(t StrategyType) error {
	s, ok := p.strategies[t]
	if !ok {
		return fmt.Errorf("%q: %w", t, ErrUnknownStrategy)
	}
	p.strategy = s
	return nil
}

func (p *Player) Strategy() Strategy {
	return p.strategy
}

// Load hands the named playlist to the selected strategy, resetting it.
func (p *Player) Load(name string) error {
	pl, err := p.playlists.Get(name)
	if err != nil {
		return err
	}
	if p.strategy == nil {
		return ErrNoStrategy
	}
	p.loaded = pl
	p.strategy.SetPlaylist(pl)
	return nil
}

func (p *Player) play(song *Song) error {
	if p.device == nil {
		return ErrNoDevice
	}
	return p.engine.Play(p.device, song)
}

// PlaySong plays a library song outside any playlist.
func (p *Player) PlaySong(title string) error {
	song, err := p.library.Find(title)
	if err != nil {
		return err
	}
	return p.play(song)
}

func (p *Player) Pause(title string) error {
	if p.engine.CurrentTitle() != title {
		return fmt.Errorf("cannot pause %q: %w", title, ErrNotPlaying)
	}
	return p.engine.Pause()
}

// PlayAll plays every remaining track of the loaded playlist and returns
// the songs in the order they were played.
func (p *Player) PlayAll() ([]*Song, error) {
	if p.loaded == nil {
		return nil, ErrNotLoaded
	}

	var played []*Song
	for p.strategy.HasNext() {
		song, err := p.strategy.Next()
		if err != nil {
			return played, err
		}
		if err := p.play(song); err != nil {
			return played, err
		}
		played = append(played, song)
	}
	p.reporter.Report("Completed playlist: %s", p.loaded.Name())
	return played, nil
}

// PlayNext plays the next track. It returns nil, without error, once the
// playlist is complete.
func (p *Player) PlayNext() (*Song, error) {
	if p.loaded == nil {
		return nil, ErrNotLoaded
	}
	if !p.strategy.HasNext() {
		p.reporter.Report("Completed playlist: %s", p.loaded.Name())
		return nil, nil
	}
	return p.advance(p.strategy.Next)
}

// PlayPrevious plays the previous track, or nothing when the strategy
// has no previous track.
func (p *Player) PlayPrevious() (*Song, error) {
	if p.loaded == nil {
		return nil, ErrNotLoaded
	}
	if !p.strategy.HasPrevious() {
		p.reporter.Report("Completed playlist: %s", p.loaded.Name())
		return nil, nil
	}
	return p.advance(p.strategy.Previous)
}

func (p *Player) advance(move func() (*Song, error)) (*Song, error) {
	song, err := move()
	if err != nil {
		return nil, err
	}
	if err := p.play(song); err != nil {
		return nil, err
	}
	return song, nil
}

// Enqueue queues a library song to play next. Only the custom queue
// strategy honours it.
func (p *Player) Enqueue(title string) error {
	song, err := p.library.Find(title)
	if err != nil {
		return err
	}
	if p.strategy == nil {
		return ErrNoStrategy
	}
	return p.strategy.Enqueue(song)
}
