// session/session.go
package session

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/network"
)

// Session is one connected client. Player is the display name the client
// gave when it created or joined a room.
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	lastActive atomic.Time
	player     string
	roomID     string
	Data       map[string]interface{}
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Conn:      conn,
		CreatedAt: now,
		Data:      make(map[string]interface{}),
	}
	s.lastActive.Store(now)
	return s
}

func (s *Session) Set(key string, value interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Data[key] = value
}

func (s *Session) Get(key string) interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Data[key]
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.Touch()
	return s.Conn.Send(msgID, data)
}

// SendJSON marshals v and sends it under msgID.
func (s *Session) SendJSON(msgID uint16, v any) error {
	s.Touch()
	return network.SendJSON(s.Conn, msgID, v)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Touch() {
	s.lastActive.Store(time.Now())
}

func (s *Session) LastActive() time.Time {
	return s.lastActive.Load()
}

func (s *Session) Player() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.player
}

func (s *Session) SetPlayer(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.player = name
}

func (s *Session) RoomID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID
}

func (s *Session) SetRoomID(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.roomID = id
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every connected session.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// All returns every session, ordered by ID.
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mutex.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *Manager) GetByPlayer(name string) []*Session {
	var result []*Session
	for _, s := range m.All() {
		if s.Player() == name {
			result = append(result, s)
		}
	}
	return result
}
