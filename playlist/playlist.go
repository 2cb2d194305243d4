// Package playlist is the music player: a song library, named playlists,
// pluggable play strategies and a player facade that routes audio to one
// connected output device.
package playlist

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"facette.io/natsort"

	"github.com/wfunc/turnsim/lazy"
)

var (
	ErrPlaylistExists   = errors.New("playlist already exists")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrNilSong          = errors.New("cannot add nil song")
)

type Song struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	FilePath string `json:"file_path,omitempty"`
}

func (s *Song) String() string {
	return s.Title + " by " + s.Artist
}

// Playlist is an ordered list of songs. Strategies identify songs by
// pointer, so the same *Song may appear in several playlists.
type Playlist struct {
	name  string
	songs []*Song
}

func NewPlaylist(name string) *Playlist {
	return &Playlist{name: name}
}

func (p *Playlist) Name() string {
	return p.name
}

func (p *Playlist) Size() int {
	return len(p.songs)
}

func (p *Playlist) Songs() []*Song {
	return slices.Clone(p.songs)
}

func (p *Playlist) Add(song *Song) error {
	if song == nil {
		return ErrNilSong
	}
	p.songs = append(p.songs, song)
	return nil
}

func (p *Playlist) indexOf(song *Song) int {
	return slices.Index(p.songs, song)
}

// Library holds every song the player knows, looked up by title.
type Library struct {
	mu    sync.RWMutex
	songs []*Song
}

func (l *Library) Add(title, artist, path string) *Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := &Song{Title: title, Artist: artist, FilePath: path}
	l.songs = append(l.songs, s)
	return s
}

// Find returns the first song with the given title.
func (l *Library) Find(title string) (*Song, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range l.songs {
		if s.Title == title {
			return s, nil
		}
	}
	return nil, fmt.Errorf("song %q: %w", title, ErrSongNotFound)
}

// Manager owns the named playlists.
type Manager struct {
	mu        sync.RWMutex
	playlists map[string]*Playlist
}

var defaultManager = lazy.New(NewManager)

// DefaultManager is the process-wide playlist manager.
func DefaultManager() *Manager {
	return defaultManager.Get()
}

func NewManager() *Manager {
	return &Manager{playlists: make(map[string]*Playlist)}
}

func (m *Manager) Create(name string) (*Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.playlists[name]; ok {
		return nil, fmt.Errorf("playlist %q: %w", name, ErrPlaylistExists)
	}
	p := NewPlaylist(name)
	m.playlists[name] = p
	return p, nil
}

func (m *Manager) AddSong(name string, song *Song) error {
	p, err := m.Get(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return p.Add(song)
}

func (m *Manager) Get(name string) (*Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.playlists[name]
	if !ok {
		return nil, fmt.Errorf("playlist %q: %w", name, ErrPlaylistNotFound)
	}
	return p, nil
}

// Names lists playlists in natural order ("Mix 2" before "Mix 10").
func (m *Manager) Names() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.playlists))
	for n := range m.playlists {
		names = append(names, n)
	}
	m.mu.RUnlock()

	natsort.Sort(names)
	return names
}
