package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 10*time.Minute, cfg.Server.RoomIdleTimeout)
	assert.Equal(t, 2, cfg.Vending.Items)
	assert.Equal(t, 20, cfg.Vending.Price)
	assert.Equal(t, 3, cfg.Payment.Retries.Paytm)
	assert.Equal(t, 1, cfg.Payment.Retries.Razorpay)
	assert.Equal(t, 3, cfg.TicTacToe.BoardSize)
	assert.Equal(t, 10, cfg.SnakeLadder.BoardSide)
	assert.Empty(t, cfg.SnakeLadder.Difficulty)

	notes, err := cfg.ATM.Denominations()
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1000: 3, 500: 5, 200: 10, 100: 20}, notes)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	body := `
server:
  http_address: ":9999"
sim:
  seed: 42
vending:
  items: 5
  price: 15
snakeladder:
  difficulty: hard
  board_side: 12
atm:
  notes:
    "2000": 1
    "100": 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.HTTPAddress)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 5, cfg.Vending.Items)
	assert.Equal(t, 15, cfg.Vending.Price)
	assert.Equal(t, "hard", cfg.SnakeLadder.Difficulty)
	assert.Equal(t, 12, cfg.SnakeLadder.BoardSide)

	notes, err := cfg.ATM.Denominations()
	require.NoError(t, err)
	assert.Equal(t, 1, notes[2000])
	assert.Equal(t, 4, notes[100])
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("VENDING_PRICE", "35")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 35, cfg.Vending.Price)
}

func TestDenominations_Invalid(t *testing.T) {
	_, err := ATMConfig{Notes: map[string]int{"ten": 1}}.Denominations()
	require.ErrorIs(t, err, ErrInvalidDenomination)
}
