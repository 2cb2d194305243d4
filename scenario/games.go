package scenario

import (
	"context"
	"io"

	"github.com/wfunc/turnsim/chess"
	"github.com/wfunc/turnsim/snakeladder"
	"github.com/wfunc/turnsim/state"
	"github.com/wfunc/turnsim/tictactoe"
	"github.com/wfunc/turnsim/vending"
)

// maxRolls bounds the snake-and-ladder demo; an exact finish can take a
// while with an unlucky seed.
const maxRolls = 1000

func Vending(ctx context.Context, env Env) error {
	m := vending.NewMachine(env.Config.Vending.Items, env.Config.Vending.Price, env.Out)
	price := env.Config.Vending.Price

	script := state.NewScript(
		vending.Action{Kind: vending.InsertCoin, Amount: price / 2},
		vending.Action{Kind: vending.SelectItem},
		vending.Action{Kind: vending.InsertCoin, Amount: price - price/2},
		vending.Action{Kind: vending.SelectItem},
		vending.Action{Kind: vending.Dispense},
		vending.Action{Kind: vending.InsertCoin, Amount: price + 5},
		vending.Action{Kind: vending.SelectItem},
		vending.Action{Kind: vending.Dispense},
		vending.Action{Kind: vending.InsertCoin, Amount: price},
		vending.Action{Kind: vending.Refill, Amount: 5},
		vending.Action{Kind: vending.InsertCoin, Amount: price},
		vending.Action{Kind: vending.ReturnCoin},
	)
	if _, err := state.Drive(ctx, m, script); err != nil {
		return err
	}
	env.Out.Report("Stock left: %d, state: %s", m.Stock(), m.State())
	return nil
}

func TicTacToe(ctx context.Context, env Env) error {
	g, err := tictactoe.NewGame(env.Config.TicTacToe.BoardSize, nil)
	if err != nil {
		return err
	}
	g.AddPlayer(&tictactoe.Player{ID: 1, Name: "Aditya", Mark: 'X'})
	g.AddPlayer(&tictactoe.Player{ID: 2, Name: "Rohit", Mark: 'O'})
	g.AddNotifier(tictactoe.ReporterNotifier{Reporter: env.Out})

	script := state.NewScript(
		tictactoe.Move{Row: 0, Col: 0},
		tictactoe.Move{Row: 1, Col: 0},
		tictactoe.Move{Row: 0, Col: 0}, // taken; Aditya goes again
		tictactoe.Move{Row: 0, Col: 1},
		tictactoe.Move{Row: 1, Col: 1},
		tictactoe.Move{Row: 0, Col: 2},
	)
	if _, err := state.Drive(ctx, g, script); err != nil {
		return err
	}
	env.Out.Report("%s", g.Board())
	return nil
}

func SnakeLadder(ctx context.Context, env Env) error {
	g, err := snakeladder.NewStandardGame(env.Source)
	if err != nil {
		return err
	}
	g.AddNotifier(snakeladder.ReporterNotifier{Reporter: env.Out})
	g.AddPlayer("Aditya")
	g.AddPlayer("Rohit")

	rolls := 0
	dice := state.SourceFunc[snakeladder.RollAction](func(context.Context) (snakeladder.RollAction, error) {
		if rolls == maxRolls {
			return snakeladder.RollAction{}, io.EOF
		}
		rolls++
		return snakeladder.RollAction{}, nil
	})
	if _, err := state.Drive(ctx, g, dice); err != nil {
		return err
	}
	if g.Winner() == nil {
		env.Out.Report("No winner after %d rolls", rolls)
	}
	return nil
}

func Chess(ctx context.Context, env Env) error {
	lobby := chess.NewLobby(nil, env.Out)
	aditya := chess.NewUser("aditya", "Aditya", env.Out)
	rohit := chess.NewUser("rohit", "Rohit", env.Out)

	lobby.RequestMatch(aditya)
	m := lobby.RequestMatch(rohit)
	if m == nil {
		env.Out.Report("No opponent found")
		return nil
	}

	white, black := m.White.ID, m.Black.ID
	script := state.NewScript(
		chess.Action{PlayerID: white, Say: "Good luck!"},
		chess.Action{PlayerID: black, Say: "You too."},
		chess.Action{PlayerID: black, From: "e7", To: "e5"},
		chess.Action{PlayerID: white, From: "f2", To: "f3"},
		chess.Action{PlayerID: black, From: "e7", To: "e5"},
		chess.Action{PlayerID: white, From: "g2", To: "g4"},
		chess.Action{PlayerID: black, From: "d8", To: "h4"},
	)
	if _, err := state.Drive(ctx, m, script); err != nil {
		return err
	}
	env.Out.Report("Final: %s, %s", aditya, rohit)
	return nil
}
