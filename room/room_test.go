package room

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/monitor"
	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/sim"
)

// MockBroadcaster records every broadcast message ID per room.
type MockBroadcaster struct {
	mu   sync.Mutex
	sent map[string][]uint16
}

func (m *MockBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string][]uint16)
	}
	m.sent[roomID] = append(m.sent[roomID], msgID)
	return nil
}

func (m *MockBroadcaster) Sent(roomID string) []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint16(nil), m.sent[roomID]...)
}

func move(row, col int) json.RawMessage {
	b, _ := json.Marshal(map[string]int{"row": row, "col": col})
	return b
}

func TestRoomManager_CreateAndGetRoom(t *testing.T) {
	manager := NewRoomManager(&MockBroadcaster{}, nil)

	room, err := manager.CreateRoom("Test Room", sim.TicTacToe, sim.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { manager.RemoveRoom(room.ID) })

	assert.Equal(t, "Test Room", room.Name)
	assert.Equal(t, sim.TicTacToe, room.Kind)
	assert.Equal(t, StatusWaiting, room.GetStatus())

	got, exists := manager.GetRoom(room.ID)
	require.True(t, exists)
	assert.Same(t, room, got)

	_, err = manager.CreateRoom("", "poker", sim.Options{})
	require.ErrorIs(t, err, sim.ErrUnknownKind)
	assert.Equal(t, 1, manager.Count())
}

func TestRoom_DefaultName(t *testing.T) {
	manager := NewRoomManager(nil, nil)
	room, err := manager.CreateRoom("", sim.Vending, sim.Options{})
	require.NoError(t, err)
	defer manager.RemoveRoom(room.ID)

	assert.Contains(t, room.Name, "vending-")
}

func TestRoom_PlaysTicTacToe(t *testing.T) {
	ctx := context.Background()
	b := &MockBroadcaster{}
	manager := NewRoomManager(b, nil)
	room, err := manager.CreateRoom("ttt", sim.TicTacToe, sim.Options{})
	require.NoError(t, err)
	defer manager.RemoveRoom(room.ID)

	_, err = room.Join(ctx, "a")
	require.NoError(t, err)
	snap, err := room.Join(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.Players)
	assert.Equal(t, []string{"a", "b"}, room.Info().Players)

	_, err = room.Join(ctx, "c")
	require.ErrorIs(t, err, sim.ErrFull)

	// A rejected action does not stop the loop.
	_, err = room.Apply(ctx, "b", move(0, 0))
	require.ErrorIs(t, err, sim.ErrNotYourTurn)

	for i, m := range []struct {
		player   string
		row, col int
	}{
		{"a", 0, 0}, {"b", 1, 0}, {"a", 0, 1}, {"b", 1, 1}, {"a", 0, 2},
	} {
		res, err := room.Apply(ctx, m.player, move(m.row, m.col))
		require.NoError(t, err, "move %d", i)
		assert.Equal(t, m.player, res.Player)
	}

	assert.Equal(t, StatusFinished, room.GetStatus())
	snap, err = room.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Done)

	sent := b.Sent(room.ID)
	require.Len(t, sent, 6)
	assert.Equal(t, uint16(network.MsgTypeOutcome), sent[0])
	assert.Equal(t, uint16(network.MsgTypeGameEnd), sent[5])
}

func TestRoom_ClosedRoomRejectsCommands(t *testing.T) {
	manager := NewRoomManager(nil, nil)
	room, err := manager.CreateRoom("closing", sim.Vending, sim.Options{})
	require.NoError(t, err)

	manager.RemoveRoom(room.ID)
	_, exists := manager.GetRoom(room.ID)
	assert.False(t, exists)
	assert.Equal(t, StatusClosed, room.GetStatus())

	_, err = room.Join(context.Background(), "late")
	require.ErrorIs(t, err, ErrClosed)
	_, err = room.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrClosed)
}

func TestRoom_CallerContext(t *testing.T) {
	manager := NewRoomManager(nil, nil)
	room, err := manager.CreateRoom("ctx", sim.Vending, sim.Options{})
	require.NoError(t, err)
	defer manager.RemoveRoom(room.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = room.Snapshot(ctx)
	// Either the room won the race or the cancelled context did.
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestRoom_ConcurrentJoins(t *testing.T) {
	manager := NewRoomManager(nil, nil)
	room, err := manager.CreateRoom("shared", sim.Vending, sim.Options{Seats: 4})
	require.NoError(t, err)
	defer manager.RemoveRoom(room.ID)

	var joined, full atomic.Int32
	pool := pond.NewPool(8)
	for i := 0; i < 16; i++ {
		pool.Submit(func() {
			_, err := room.Join(context.Background(), string(rune('a'+i)))
			switch {
			case err == nil:
				joined.Inc()
			case errors.Is(err, sim.ErrFull):
				full.Inc()
			}
		})
	}
	pool.StopAndWait()

	assert.Equal(t, int32(4), joined.Load())
	assert.Equal(t, int32(12), full.Load())
	assert.Len(t, room.Players(), 4)
}

func TestManager_ListAndReapIdle(t *testing.T) {
	manager := NewRoomManager(nil, nil)
	first, err := manager.CreateRoom("first", sim.Vending, sim.Options{})
	require.NoError(t, err)
	second, err := manager.CreateRoom("second", sim.Chess, sim.Options{})
	require.NoError(t, err)
	defer manager.RemoveRoom(second.ID)

	list := manager.List()
	require.Len(t, list, 2)

	time.Sleep(20 * time.Millisecond)
	_, err = second.Snapshot(context.Background())
	require.NoError(t, err)

	reaped := manager.ReapIdle(10 * time.Millisecond)
	assert.Equal(t, []string{first.ID}, reaped)
	assert.Equal(t, 1, manager.Count())
	assert.Equal(t, StatusClosed, first.GetStatus())
}

func TestRoom_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := monitor.NewMonitor("room_test", reg)
	manager := NewRoomManager(nil, mon)

	room, err := manager.CreateRoom("metered", sim.Vending, sim.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.Metrics().ActiveRooms))

	ctx := context.Background()
	_, err = room.Join(ctx, "alice")
	require.NoError(t, err)
	_, err = room.Apply(ctx, "alice", json.RawMessage(`{"type":"insert_coin","amount":20}`))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mon.Metrics().Transitions.WithLabelValues("vending", "NO_COIN", "HAS_COIN")))
	assert.Equal(t, 1, testutil.CollectAndCount(mon.Metrics().ActionLatency))

	manager.RemoveRoom(room.ID)
	assert.Equal(t, 0.0, testutil.ToFloat64(mon.Metrics().ActiveRooms))
}
