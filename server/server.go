package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wfunc/turnsim/broadcast"
	"github.com/wfunc/turnsim/config"
	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/monitor"
	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/room"
	gsrpc "github.com/wfunc/turnsim/rpc"
	"github.com/wfunc/turnsim/session"
	"github.com/wfunc/turnsim/sim"
	"github.com/wfunc/turnsim/state"
	"github.com/wfunc/turnsim/timer"
)

const (
	requestTimeout    = 5 * time.Second
	heartbeatInterval = 30 * time.Second
)

var (
	ErrNotInRoom     = errors.New("not in a room")
	ErrMissingPlayer = errors.New("player name required")
	ErrUnknownMsg    = errors.New("unknown message type")
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	rpcServer      *gsrpc.Server
	timers         *timer.TimerManager
	monitor        *monitor.Monitor
	source         rng.Source
	layout         []byte
	httpServer     *http.Server
	ctx            context.Context
	cancel         context.CancelFunc
	shutdownOnce   sync.Once
}

// NewGameServer wires rooms, sessions and the RPC listener. A nil monitor
// records to a private registry.
func NewGameServer(cfg *config.Config, mon *monitor.Monitor) (*GameServer, error) {
	if mon == nil {
		mon = monitor.NewMonitor("turnsim", prometheus.NewRegistry())
	}

	var layout []byte
	if path := cfg.SnakeLadder.LayoutFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read board layout: %w", err)
		}
		layout = data
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &GameServer{
		cfg:            cfg,
		roomManager:    room.NewRoomManager(nil, mon),
		sessionManager: session.NewManager(),
		timers:         timer.NewTimerManager(),
		monitor:        mon,
		source:         rng.New(cfg.Sim.Seed),
		layout:         layout,
		ctx:            ctx,
		cancel:         cancel,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	b := broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)
	s.roomManager.SetBroadcaster(b)
	s.broadcaster = b

	rpcServer, err := gsrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		cancel()
		s.timers.Stop()
		return nil, fmt.Errorf("rpc server: %w", err)
	}
	if err := rpcServer.Register(gsrpc.NewRoomService(s.roomManager)); err != nil {
		cancel()
		s.timers.Stop()
		rpcServer.Stop()
		return nil, err
	}
	s.rpcServer = rpcServer

	return s, nil
}

func (s *GameServer) Rooms() *room.Manager { return s.roomManager }

// Handler serves the websocket endpoint.
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start runs the RPC listener, the idle-room reaper and the HTTP server.
// It blocks until Shutdown.
func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	if idle := s.cfg.Server.RoomIdleTimeout; idle > 0 {
		s.timers.AddTimer(idle, idle/2, func() {
			for _, id := range s.roomManager.ReapIdle(idle) {
				s.detachRoom(id)
				logger.Log.Infow("reaped idle room", "room", id)
			}
		})
	}

	s.httpServer = &http.Server{Addr: s.cfg.Server.HTTPAddress, Handler: s.Handler()}
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes every room.
func (s *GameServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cancel()
		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}
		s.rpcServer.Stop()
		s.timers.Stop()
		for _, r := range s.roomManager.List() {
			s.roomManager.RemoveRoom(r.ID)
		}
		for _, sess := range s.sessionManager.All() {
			_ = sess.Close()
		}
	})
	return err
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		s.leave(sess)
		_ = wsConn.Close()
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	s.monitor.IncMessagesReceived()
	start := time.Now()
	defer func() { s.monitor.ObserveMessageLatency(time.Since(start)) }()

	sess.Touch()
	ctx, cancel := context.WithTimeout(s.ctx, requestTimeout)
	defer cancel()

	var err error
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		err = sess.Send(network.MsgTypeHeartbeat, nil)
	case network.MsgTypeCreateRoom:
		err = s.handleCreateRoom(ctx, sess, packet)
	case network.MsgTypeJoinRoom:
		err = s.handleJoinRoom(ctx, sess, packet)
	case network.MsgTypeLeaveRoom:
		s.leave(sess)
		err = sess.SendJSON(network.MsgTypeLeaveRoom, struct{}{})
	case network.MsgTypeListRooms:
		err = s.handleListRooms(sess)
	case network.MsgTypeAction:
		err = s.handleAction(ctx, sess, packet)
	case network.MsgTypeRoomState:
		err = s.handleRoomState(ctx, sess)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownMsg, packet.MsgID)
	}

	if err != nil {
		logger.Log.Debugw("request failed", "session", sess.GetID(), "msg", packet.MsgID, "error", err)
		s.sendError(sess, packet.MsgID, err)
	}
}

func (s *GameServer) sendError(sess *session.Session, request uint16, err error) {
	msg := network.ErrorMessage{Request: request, Message: err.Error()}
	if sendErr := sess.SendJSON(network.MsgTypeError, msg); sendErr != nil {
		logger.Log.Debugw("send error reply", "session", sess.GetID(), "error", sendErr)
	}
}

// simOptions builds the options every hosted simulation starts from.
func (s *GameServer) simOptions() sim.Options {
	return sim.Options{
		Source:       s.source,
		Reporter:     state.ZapReporter{Log: logger.Log, Name: "room"},
		VendingItems: s.cfg.Vending.Items,
		VendingPrice: s.cfg.Vending.Price,
		Seats:        s.cfg.Server.MaxPlayers,
		BoardSize:    s.cfg.TicTacToe.BoardSize,
		Difficulty:   s.cfg.SnakeLadder.Difficulty,
		BoardSide:    s.cfg.SnakeLadder.BoardSide,
		Layout:       s.layout,
	}
}

func (s *GameServer) handleCreateRoom(ctx context.Context, sess *session.Session, packet *network.Packet) error {
	var req network.CreateRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return err
	}
	if req.Player == "" {
		return ErrMissingPlayer
	}

	r, err := s.roomManager.CreateRoom(req.Name, sim.Kind(req.Kind), s.simOptions())
	if err != nil {
		return err
	}
	logger.Log.Infof("Session %s created room %s", sess.GetID(), r.ID)
	return s.enter(ctx, sess, r, req.Player, network.MsgTypeCreateRoom)
}

func (s *GameServer) handleJoinRoom(ctx context.Context, sess *session.Session, packet *network.Packet) error {
	var req network.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return err
	}
	if req.Player == "" {
		return ErrMissingPlayer
	}

	r, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		return fmt.Errorf("%w: %s", room.ErrRoomNotFound, req.RoomID)
	}
	logger.Log.Infof("Session %s joining room %s", sess.GetID(), r.ID)
	return s.enter(ctx, sess, r, req.Player, network.MsgTypeJoinRoom)
}

// enter seats player in r, attaches the session, replies with the room's
// listing and shares the new snapshot with everyone in the room.
func (s *GameServer) enter(ctx context.Context, sess *session.Session, r *room.Room, player string, reply uint16) error {
	snap, err := r.Join(ctx, player)
	if err != nil {
		return err
	}
	if cur := sess.RoomID(); cur != "" && cur != r.ID {
		s.leave(sess)
	}
	sess.SetPlayer(player)
	sess.SetRoomID(r.ID)

	if err := sess.SendJSON(reply, r.Info()); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.broadcaster.BroadcastToRoom(r.ID, network.MsgTypeRoomState, data)
}

// leave detaches sess from its room. A room nobody is attached to any more
// is closed.
func (s *GameServer) leave(sess *session.Session) {
	id := sess.RoomID()
	if id == "" {
		return
	}
	sess.SetRoomID("")
	for _, other := range s.sessionManager.All() {
		if other.RoomID() == id {
			return
		}
	}
	s.roomManager.RemoveRoom(id)
}

// detachRoom clears the room from every session after it was reaped.
func (s *GameServer) detachRoom(id string) {
	for _, sess := range s.sessionManager.All() {
		if sess.RoomID() == id {
			sess.SetRoomID("")
		}
	}
}

func (s *GameServer) handleListRooms(sess *session.Session) error {
	rooms := s.roomManager.List()
	infos := make([]network.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	return sess.SendJSON(network.MsgTypeListRooms, infos)
}

func (s *GameServer) currentRoom(sess *session.Session) (*room.Room, error) {
	id := sess.RoomID()
	if id == "" {
		return nil, ErrNotInRoom
	}
	r, exists := s.roomManager.GetRoom(id)
	if !exists {
		sess.SetRoomID("")
		return nil, fmt.Errorf("%w: %s", room.ErrRoomNotFound, id)
	}
	return r, nil
}

// handleAction forwards the body to the room. The room broadcasts the
// outcome, so only failures are answered here.
func (s *GameServer) handleAction(ctx context.Context, sess *session.Session, packet *network.Packet) error {
	r, err := s.currentRoom(sess)
	if err != nil {
		return err
	}
	var req network.ActionRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return err
	}
	_, err = r.Apply(ctx, sess.Player(), req.Body)
	return err
}

func (s *GameServer) handleRoomState(ctx context.Context, sess *session.Session) error {
	r, err := s.currentRoom(sess)
	if err != nil {
		return err
	}
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	return sess.SendJSON(network.MsgTypeRoomState, snap)
}
