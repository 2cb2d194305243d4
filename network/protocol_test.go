package network

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	frame, err := Encode(MsgTypeAction, []byte(`{"row":1}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xCA, 0x00, 0x09}, frame[:4])

	p, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, uint16(MsgTypeAction), p.MsgID)
	assert.Equal(t, uint16(9), p.Length)
	assert.JSONEq(t, `{"row":1}`, string(p.Data))
}

func TestDecode_Short(t *testing.T) {
	_, err := Decode([]byte{0, 1})
	require.ErrorIs(t, err, ErrShortFrame)

	_, err = Decode([]byte{0, 1, 0, 5, 'a'})
	require.ErrorIs(t, err, ErrShortFrame)
}

func TestEncode_TooLarge(t *testing.T) {
	_, err := Encode(1, make([]byte, 0x10000))
	require.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestWSConnection_RoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws := NewWSConnection(conn)
		defer ws.Close()

		p, err := ws.ReadPacket()
		if err != nil {
			return
		}
		_ = ws.Send(p.MsgID+1, p.Data)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	client := NewWSConnection(conn)
	defer client.Close()

	require.NoError(t, SendJSON(client, MsgTypeJoinRoom, JoinRoomRequest{RoomID: "r1", Player: "alice"}))

	p, err := client.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, uint16(MsgTypeJoinRoom+1), p.MsgID)
	assert.JSONEq(t, `{"room_id":"r1","player":"alice"}`, string(p.Data))
}
