package room

import (
	"time"

	"github.com/wfunc/turnsim/state"
)

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
}

// Metrics receives room activity. The monitor package satisfies it.
type Metrics interface {
	state.Observer
	ObserveAction(kind string, d time.Duration)
	SetActiveRooms(n int)
}
