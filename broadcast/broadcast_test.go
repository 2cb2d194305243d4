package broadcast

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/room"
	"github.com/wfunc/turnsim/session"
	"github.com/wfunc/turnsim/sim"
)

type MockConnection struct {
	mu   sync.Mutex
	sent []uint16
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msgID)
	return nil
}
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func (m *MockConnection) Sent() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint16(nil), m.sent...)
}

func newSession(id, player string, sessions *session.Manager) (*session.Session, *MockConnection) {
	conn := &MockConnection{}
	s := session.NewSession(id, conn)
	s.SetPlayer(player)
	sessions.Add(s)
	return s, conn
}

func TestRoomBroadcaster(t *testing.T) {
	rooms := room.NewRoomManager(nil, nil)
	sessions := session.NewManager()
	b := NewRoomBroadcaster(rooms, sessions)

	r, err := rooms.CreateRoom("lobby", sim.Vending, sim.Options{})
	require.NoError(t, err)
	defer rooms.RemoveRoom(r.ID)

	inRoom, inConn := newSession("s1", "alice", sessions)
	inRoom.SetRoomID(r.ID)
	_, outConn := newSession("s2", "bob", sessions)

	require.NoError(t, b.BroadcastToRoom(r.ID, network.MsgTypeOutcome, []byte(`{}`)))
	assert.Equal(t, []uint16{network.MsgTypeOutcome}, inConn.Sent())
	assert.Empty(t, outConn.Sent())

	require.ErrorIs(t, b.BroadcastToRoom("missing", network.MsgTypeOutcome, nil), ErrRoomNotFound)

	require.NoError(t, b.BroadcastToAll(network.MsgTypeHeartbeat, nil))
	assert.Len(t, inConn.Sent(), 2)
	assert.Len(t, outConn.Sent(), 1)

	require.NoError(t, b.BroadcastToUsers([]string{"bob", "nobody"}, network.MsgTypeRoomState, nil))
	assert.Equal(t, []uint16{network.MsgTypeHeartbeat, network.MsgTypeRoomState}, outConn.Sent())
}
