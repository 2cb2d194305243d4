// Command client is an interactive console for the simulation server.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/manifoldco/promptui"

	"github.com/wfunc/turnsim/network"
	"github.com/wfunc/turnsim/sim"
)

const (
	menuCreate = "Create room"
	menuJoin   = "Join room"
	menuList   = "List rooms"
	menuAction = "Send action"
	menuState  = "Room state"
	menuLeave  = "Leave room"
	menuQuit   = "Quit"
)

// exampleActions seeds the action prompt for each kind.
var exampleActions = map[string]string{
	string(sim.Vending):     `{"type":"insert_coin","amount":20}`,
	string(sim.TicTacToe):   `{"row":0,"col":0}`,
	string(sim.SnakeLadder): `{}`,
	string(sim.Chess):       `{"from":"e2","to":"e4"}`,
}

// writeMu serialises writes; the heartbeat ticker and the menu share the
// connection.
var writeMu sync.Mutex

// send frames v as JSON and writes it to the server.
func send(c *websocket.Conn, msgID uint16, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	frame, err := network.Encode(msgID, data)
	if err != nil {
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	return c.WriteMessage(websocket.BinaryMessage, frame)
}

func readLoop(c *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			log.Println("Read error:", err)
			return
		}
		p, err := network.Decode(message)
		if err != nil {
			log.Printf("Received invalid packet: %v", err)
			continue
		}
		if p.MsgID == network.MsgTypeHeartbeat {
			continue
		}
		log.Printf("<- RECV (ID: %d): %s", p.MsgID, string(p.Data))
	}
}

func validJSON(s string) error {
	if !json.Valid([]byte(s)) {
		return errors.New("not valid JSON")
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Validate: validate}
	return p.Run()
}

func choose(label string, items []string) (string, error) {
	s := promptui.Select{Label: label, Items: items}
	_, result, err := s.Run()
	return result, err
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	name := flag.String("name", "", "player name")
	flag.Parse()

	player := *name
	if player == "" {
		var err error
		if player, err = ask("Player name", "", notEmpty); err != nil {
			return
		}
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go readLoop(c, done)

	go func() {
		t := time.NewTicker(20 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				_ = send(c, network.MsgTypeHeartbeat, nil)
			}
		}
	}()

	kind := ""
	for {
		select {
		case <-done:
			return
		default:
		}

		choice, err := choose("Action", []string{menuCreate, menuJoin, menuList, menuAction, menuState, menuLeave, menuQuit})
		if err != nil || choice == menuQuit {
			writeMu.Lock()
			_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			writeMu.Unlock()
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}

		if err := run(c, choice, player, &kind); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
				continue
			}
			log.Println("Error:", err)
		}
	}
}

func run(c *websocket.Conn, choice, player string, kind *string) error {
	switch choice {
	case menuCreate:
		kinds := make([]string, 0, len(sim.Kinds()))
		for _, k := range sim.Kinds() {
			kinds = append(kinds, string(k))
		}
		k, err := choose("Simulation", kinds)
		if err != nil {
			return err
		}
		roomName, err := ask("Room name", "", nil)
		if err != nil {
			return err
		}
		*kind = k
		return send(c, network.MsgTypeCreateRoom, network.CreateRoomRequest{Kind: k, Name: roomName, Player: player})
	case menuJoin:
		id, err := ask("Room ID", "", notEmpty)
		if err != nil {
			return err
		}
		return send(c, network.MsgTypeJoinRoom, network.JoinRoomRequest{RoomID: id, Player: player})
	case menuList:
		return send(c, network.MsgTypeListRooms, nil)
	case menuAction:
		body, err := ask("Action JSON", exampleActions[*kind], validJSON)
		if err != nil {
			return err
		}
		return send(c, network.MsgTypeAction, network.ActionRequest{Body: json.RawMessage(body)})
	case menuState:
		return send(c, network.MsgTypeRoomState, nil)
	case menuLeave:
		return send(c, network.MsgTypeLeaveRoom, nil)
	}
	return fmt.Errorf("unknown choice %q", choice)
}
