// room/room.go
package room

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/sim"
	"github.com/wfunc/turnsim/state"
)

var (
	ErrClosed       = errors.New("room closed")
	ErrRoomNotFound = errors.New("room not found")
)

// Status is the room's lifecycle, derived from the hosted simulation.
type Status int32

const (
	StatusWaiting Status = iota
	StatusPlaying
	StatusFinished
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return "closed"
	}
}

type commandKind int

const (
	cmdJoin commandKind = iota
	cmdAction
	cmdSnapshot
)

type command struct {
	kind   commandKind
	player string
	body   json.RawMessage
	reply  chan reply
}

type reply struct {
	result   sim.Result
	snapshot sim.Snapshot
	err      error
}

// Room hosts one simulation. Every call into the simulation goes through the
// room's command channel and is applied by a single goroutine running the
// driver loop, so simulations never see concurrent access.
type Room struct {
	ID        string
	Name      string
	Kind      sim.Kind
	CreatedAt time.Time

	sim         sim.Sim
	cmds        chan command
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	broadcaster Broadcaster
	metrics     Metrics

	status     atomic.Int32
	lastActive atomic.Time
	mutex      sync.RWMutex
	players    []string
}

// NewRoom starts the room's loop. broadcaster and metrics may be nil.
func NewRoom(id, name string, s sim.Sim, broadcaster Broadcaster, metrics Metrics) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Room{
		ID:          id,
		Name:        name,
		Kind:        s.Kind(),
		CreatedAt:   time.Now(),
		sim:         s,
		cmds:        make(chan command),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		broadcaster: broadcaster,
		metrics:     metrics,
	}
	r.lastActive.Store(r.CreatedAt)
	if metrics != nil {
		s.Subscribe(metrics)
	}
	go r.loop()
	return r
}

func (r *Room) loop() {
	defer close(r.done)
	n, err := state.Drive(r.ctx, r, state.Chan[command](r.cmds))
	logger.Log.Debugw("room loop stopped", "room", r.ID, "commands", n, "reason", err)
}

// Step applies one command. Simulation errors go back to the caller and
// never stop the loop.
func (r *Room) Step(c command) error {
	r.lastActive.Store(time.Now())

	var rep reply
	switch c.kind {
	case cmdJoin:
		if rep.err = r.sim.Join(c.player); rep.err == nil {
			r.setPlayers(r.sim.Snapshot().Players)
		}
	case cmdAction:
		start := time.Now()
		rep.result, rep.err = r.sim.Apply(c.player, c.body)
		if r.metrics != nil {
			r.metrics.ObserveAction(string(r.Kind), time.Since(start))
		}
	}
	rep.snapshot = r.sim.Snapshot()

	if c.kind == cmdAction && rep.err == nil {
		r.setStatus(StatusPlaying)
		r.publish(rep.result, rep.snapshot)
	}
	if r.sim.Done() {
		r.setStatus(StatusFinished)
	}

	c.reply <- rep
	return nil
}

// Done is always false: a finished game still serves snapshots until the
// room is closed.
func (r *Room) Done() bool { return false }

func (r *Room) publish(res sim.Result, snap sim.Snapshot) {
	if r.broadcaster == nil {
		return
	}
	r.broadcast(network.MsgTypeOutcome, res)
	if res.Done {
		r.broadcast(network.MsgTypeGameEnd, snap)
	}
}

func (r *Room) broadcast(msgID uint16, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorw("encode broadcast", "room", r.ID, "msg", msgID, "error", err)
		return
	}
	if err := r.broadcaster.BroadcastToRoom(r.ID, msgID, data); err != nil {
		logger.Log.Warnw("broadcast failed", "room", r.ID, "msg", msgID, "error", err)
	}
}

func (r *Room) do(ctx context.Context, c command) (reply, error) {
	c.reply = make(chan reply, 1)
	select {
	case r.cmds <- c:
	case <-r.ctx.Done():
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case rep := <-c.reply:
		return rep, rep.err
	case <-r.ctx.Done():
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Join seats player in the simulation.
func (r *Room) Join(ctx context.Context, player string) (sim.Snapshot, error) {
	rep, err := r.do(ctx, command{kind: cmdJoin, player: player})
	return rep.snapshot, err
}

// Apply hands one JSON action to the simulation on behalf of player.
func (r *Room) Apply(ctx context.Context, player string, body json.RawMessage) (sim.Result, error) {
	rep, err := r.do(ctx, command{kind: cmdAction, player: player, body: body})
	return rep.result, err
}

func (r *Room) Snapshot(ctx context.Context) (sim.Snapshot, error) {
	rep, err := r.do(ctx, command{kind: cmdSnapshot})
	return rep.snapshot, err
}

func (r *Room) setPlayers(players []string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.players = players
}

// Players returns the seated players in seat order.
func (r *Room) Players() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]string, len(r.players))
	copy(out, r.players)
	return out
}

// setStatus never moves a closed room back to life.
func (r *Room) setStatus(s Status) {
	for {
		cur := r.status.Load()
		if Status(cur) == StatusClosed || r.status.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}

func (r *Room) GetStatus() Status {
	return Status(r.status.Load())
}

func (r *Room) LastActive() time.Time {
	return r.lastActive.Load()
}

// Info is the room's listing entry.
func (r *Room) Info() network.RoomInfo {
	return network.RoomInfo{
		ID:      r.ID,
		Name:    r.Name,
		Kind:    string(r.Kind),
		Status:  r.GetStatus().String(),
		Players: r.Players(),
	}
}

// Close stops the loop and waits for it to exit.
func (r *Room) Close() {
	r.status.Store(int32(StatusClosed))
	r.cancel()
	<-r.done
}

// --- room manager ---

// Manager owns every room.
type Manager struct {
	rooms       map[string]*Room
	mutex       sync.RWMutex
	broadcaster Broadcaster
	metrics     Metrics
}

func NewRoomManager(broadcaster Broadcaster, metrics Metrics) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		broadcaster: broadcaster,
		metrics:     metrics,
	}
}

// SetBroadcaster wires the broadcaster after construction; the broadcaster
// usually needs the manager first.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.broadcaster = b
}

// CreateRoom builds a simulation of kind and hosts it in a new room.
func (m *Manager) CreateRoom(name string, kind sim.Kind, opts sim.Options) (*Room, error) {
	s, err := sim.New(kind, opts)
	if err != nil {
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := uuid.NewString()
	if name == "" {
		name = string(kind) + "-" + id[:8]
	}
	room := NewRoom(id, name, s, m.broadcaster, m.metrics)
	m.rooms[id] = room
	m.reportCount()
	logger.Log.Infow("room created", "room", id, "name", name, "kind", kind)
	return room, nil
}

// RemoveRoom closes the room and forgets it.
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	room, exists := m.rooms[id]
	if exists {
		delete(m.rooms, id)
		m.reportCount()
	}
	m.mutex.Unlock()

	if exists {
		room.Close()
		logger.Log.Infow("room removed", "room", id)
	}
}

func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// List returns rooms oldest first.
func (m *Manager) List() []*Room {
	m.mutex.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mutex.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// ReapIdle removes rooms with no command for longer than timeout and
// returns their IDs.
func (m *Manager) ReapIdle(timeout time.Duration) []string {
	cutoff := time.Now().Add(-timeout)
	var idle []string
	for _, r := range m.List() {
		if r.LastActive().Before(cutoff) {
			idle = append(idle, r.ID)
		}
	}
	for _, id := range idle {
		m.RemoveRoom(id)
	}
	return idle
}

// reportCount must be called with the mutex held.
func (m *Manager) reportCount() {
	if m.metrics != nil {
		m.metrics.SetActiveRooms(len(m.rooms))
	}
}
