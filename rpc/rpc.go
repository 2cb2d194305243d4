package rpc

import (
	"context"
	"errors"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/room"
	"github.com/wfunc/turnsim/sim"
)

// Server manages the RPC listener. It speaks JSON-RPC so snapshots with
// free-form detail survive the trip.
type Server struct {
	listener net.Listener
	address  string
	rpc      *rpc.Server
}

// NewServer listens on addr. Services are added with Register before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		rpc:      rpc.NewServer(),
	}, nil
}

func (s *Server) Register(service any) error {
	return s.rpc.Register(service)
}

func (s *Server) Addr() string {
	return s.address
}

// Start accepts connections until Stop is called.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.ServeConn(conn)
	}
}

// ServeConn serves one client connection until it closes.
func (s *Server) ServeConn(conn io.ReadWriteCloser) {
	s.rpc.ServeCodec(jsonrpc.NewServerCodec(conn))
}

func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		_ = s.listener.Close()
	}
}

// Dial connects a JSON-RPC client to addr.
func Dial(addr string) (*rpc.Client, error) {
	return jsonrpc.Dial("tcp", addr)
}

// RoomService exposes read-only room data to operators.
type RoomService struct {
	rooms   *room.Manager
	timeout time.Duration
}

func NewRoomService(rooms *room.Manager) *RoomService {
	return &RoomService{rooms: rooms, timeout: 2 * time.Second}
}

type ListArgs struct {
	// Kind filters the listing; empty lists every room.
	Kind string
}

type ListReply struct {
	Rooms []network.RoomInfo
}

func (rs *RoomService) List(args *ListArgs, reply *ListReply) error {
	reply.Rooms = []network.RoomInfo{}
	for _, r := range rs.rooms.List() {
		if args.Kind != "" && string(r.Kind) != args.Kind {
			continue
		}
		reply.Rooms = append(reply.Rooms, r.Info())
	}
	return nil
}

type SnapshotArgs struct {
	RoomID string
}

type SnapshotReply struct {
	Snapshot sim.Snapshot
}

func (rs *RoomService) Snapshot(args *SnapshotArgs, reply *SnapshotReply) error {
	r, ok := rs.rooms.GetRoom(args.RoomID)
	if !ok {
		return room.ErrRoomNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	snap, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	reply.Snapshot = snap
	return nil
}
