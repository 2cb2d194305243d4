package playlist

import (
	"errors"
	"fmt"

	"github.com/wfunc/turnsim/rng"
)

var (
	ErrNoPlaylist      = errors.New("No playlist loaded or playlist is empty.")
	ErrNoNext          = errors.New("No songs left to play")
	ErrNoPrevious      = errors.New("No previous song available.")
	ErrUnknownStrategy = errors.New("unknown play strategy")
)

// Strategy decides the order songs are played in. SetPlaylist resets any
// position the strategy kept for the previous playlist.
type Strategy interface {
	SetPlaylist(p *Playlist)
	HasNext() bool
	Next() (*Song, error)
	HasPrevious() bool
	Previous() (*Song, error)
	Enqueue(song *Song) error
}

type StrategyType string

const (
	SequentialType  StrategyType = "sequential"
	RandomType      StrategyType = "random"
	CustomQueueType StrategyType = "custom_queue"
)

func ParseStrategyType(s string) (StrategyType, error) {
	switch t := StrategyType(s); t {
	case SequentialType, RandomType, CustomQueueType:
		return t, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

func loaded(p *Playlist) bool {
	return p != nil && p.Size() > 0
}

// Sequential plays in playlist order.
type Sequential struct {
	playlist *Playlist
	index    int
}

func NewSequential() *Sequential {
	return &Sequential{index: -1}
}

func (s *Sequential) SetPlaylist(p *Playlist) {
	s.playlist = p
	s.index = -1
}

func (s *Sequential) HasNext() bool {
	return s.playlist != nil && s.index+1 < s.playlist.Size()
}

func (s *Sequential) Next() (*Song, error) {
	if !loaded(s.playlist) {
		return nil, ErrNoPlaylist
	}
	if s.index+1 >= s.playlist.Size() {
		return nil, ErrNoNext
	}
	s.index++
	return s.playlist.songs[s.index], nil
}

// HasPrevious is false on the second song as well as the first: it needs
// index-1 to be strictly positive.
func (s *Sequential) HasPrevious() bool {
	return s.index-1 > 0
}

func (s *Sequential) Previous() (*Song, error) {
	if !loaded(s.playlist) {
		return nil, ErrNoPlaylist
	}
	if s.index-1 < 0 {
		return nil, ErrNoPrevious
	}
	s.index--
	return s.playlist.songs[s.index], nil
}

// Enqueue is not supported by sequential play and is ignored.
func (s *Sequential) Enqueue(*Song) error {
	return nil
}

// Random plays every song once in a random order. Previous walks back
// through the songs already played.
type Random struct {
	playlist  *Playlist
	remaining []*Song
	history   []*Song
	src       rng.Source
}

func NewRandom(src rng.Source) *Random {
	if src == nil {
		src = rng.New(0)
	}
	return &Random{src: src}
}

func (r *Random) SetPlaylist(p *Playlist) {
	r.playlist = p
	r.remaining = nil
	r.history = nil
	if loaded(p) {
		r.remaining = p.Songs()
	}
}

func (r *Random) HasNext() bool {
	return r.playlist != nil && len(r.remaining) > 0
}

func (r *Random) Next() (*Song, error) {
	if !loaded(r.playlist) {
		return nil, ErrNoPlaylist
	}
	if len(r.remaining) == 0 {
		return nil, ErrNoNext
	}

	i := r.src.Intn(len(r.remaining))
	song := r.remaining[i]

	last := len(r.remaining) - 1
	r.remaining[i], r.remaining[last] = r.remaining[last], r.remaining[i]
	r.remaining = r.remaining[:last]

	r.history = append(r.history, song)
	return song, nil
}

func (r *Random) HasPrevious() bool {
	return len(r.history) > 0
}

func (r *Random) Previous() (*Song, error) {
	if !loaded(r.playlist) {
		return nil, ErrNoPlaylist
	}
	if len(r.history) == 0 {
		return nil, ErrNoPrevious
	}
	last := len(r.history) - 1
	song := r.history[last]
	r.history = r.history[:last]
	return song, nil
}

func (r *Random) Enqueue(*Song) error {
	return nil
}

// CustomQueue plays enqueued songs first, then falls back to playlist
// order from wherever the last queued song sits in the playlist.
type CustomQueue struct {
	playlist *Playlist
	index    int
	queue    []*Song
	played   []*Song
}

func NewCustomQueue() *CustomQueue {
	return &CustomQueue{index: -1}
}

func (c *CustomQueue) SetPlaylist(p *Playlist) {
	c.playlist = p
	c.index = -1
	c.queue = nil
	c.played = nil
}

func (c *CustomQueue) HasNext() bool {
	return c.playlist != nil && c.index+1 < c.playlist.Size()
}

func (c *CustomQueue) seek(song *Song) {
	if i := c.playlist.indexOf(song); i >= 0 {
		c.index = i
	}
}

func (c *CustomQueue) Next() (*Song, error) {
	if !loaded(c.playlist) {
		return nil, ErrNoPlaylist
	}

	if len(c.queue) > 0 {
		song := c.queue[0]
		c.queue = c.queue[1:]
		c.played = append(c.played, song)
		c.seek(song)
		return song, nil
	}

	if c.index+1 >= c.playlist.Size() {
		return nil, ErrNoNext
	}
	c.index++
	return c.playlist.songs[c.index], nil
}

func (c *CustomQueue) HasPrevious() bool {
	return c.index-1 > 0
}

func (c *CustomQueue) Previous() (*Song, error) {
	if !loaded(c.playlist) {
		return nil, ErrNoPlaylist
	}

	if n := len(c.played); n > 0 {
		song := c.played[n-1]
		c.played = c.played[:n-1]
		c.seek(song)
		return song, nil
	}

	if c.index-1 < 0 {
		return nil, ErrNoPrevious
	}
	c.index--
	return c.playlist.songs[c.index], nil
}

func (c *CustomQueue) Enqueue(song *Song) error {
	if song == nil {
		return ErrNilSong
	}
	c.queue = append(c.queue, song)
	return nil
}

// Queued reports how many songs are waiting in the custom queue.
func (c *CustomQueue) Queued() int {
	return len(c.queue)
}
