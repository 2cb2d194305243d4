package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Message IDs. Every frame is a 2-byte message ID, a 2-byte body length and
// a JSON body.
const (
	MsgTypeHeartbeat  = 1
	MsgTypeJoinRoom   = 101
	MsgTypeLeaveRoom  = 102
	MsgTypeCreateRoom = 103
	MsgTypeListRooms  = 104
	MsgTypeAction     = 202
	MsgTypeRoomState  = 301
	MsgTypeOutcome    = 304
	MsgTypeGameEnd    = 305
	MsgTypeError      = 500
)

const headerSize = 4

var (
	ErrShortFrame   = errors.New("frame shorter than its header")
	ErrBodyTooLarge = errors.New("body exceeds 65535 bytes")
)

type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint16
}

// Encode frames data under msgID.
func Encode(msgID uint16, data []byte) ([]byte, error) {
	if len(data) > 0xFFFF {
		return nil, ErrBodyTooLarge
	}
	frame := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint16(frame[0:2], msgID)
	binary.BigEndian.PutUint16(frame[2:4], uint16(len(data)))
	copy(frame[headerSize:], data)
	return frame, nil
}

// Decode parses one frame. Trailing bytes past the declared length are
// ignored.
func Decode(frame []byte) (*Packet, error) {
	if len(frame) < headerSize {
		return nil, ErrShortFrame
	}
	msgID := binary.BigEndian.Uint16(frame[0:2])
	length := binary.BigEndian.Uint16(frame[2:4])
	if len(frame) < headerSize+int(length) {
		return nil, fmt.Errorf("declared %d bytes, got %d: %w", length, len(frame)-headerSize, ErrShortFrame)
	}
	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   frame[headerSize : headerSize+int(length)],
	}, nil
}

// CreateRoomRequest asks for a new room hosting Kind. The creator joins it
// as Player.
type CreateRoomRequest struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Player string `json:"player"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
	Player string `json:"player"`
}

// ActionRequest carries one simulation action; Body is decoded by the
// room's simulation.
type ActionRequest struct {
	Body json.RawMessage `json:"body"`
}

type RoomInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Status  string   `json:"status"`
	Players []string `json:"players"`
}

type ErrorMessage struct {
	Request uint16 `json:"request"`
	Message string `json:"message"`
}
