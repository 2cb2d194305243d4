// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/room"
	"github.com/wfunc/turnsim/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
	BroadcastToUsers(players []string, msgID uint16, data []byte) error
}

// RoomBroadcaster delivers to the sessions currently attached to a room.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	if _, exists := b.roomManager.GetRoom(roomID); !exists {
		return ErrRoomNotFound
	}

	for _, s := range b.sessionManager.All() {
		if s.RoomID() != roomID {
			continue
		}
		b.send(s, msgID, data)
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.All() {
		b.send(s, msgID, data)
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToUsers(players []string, msgID uint16, data []byte) error {
	for _, name := range players {
		for _, s := range b.sessionManager.GetByPlayer(name) {
			b.send(s, msgID, data)
		}
	}
	return nil
}

// send skips a failing session; the read loop notices the broken connection
// and cleans it up.
func (b *RoomBroadcaster) send(s *session.Session, msgID uint16, data []byte) {
	if err := s.Send(msgID, data); err != nil {
		logger.Log.Debugw("broadcast send failed", "session", s.ID, "msg", msgID, "error", err)
	}
}
