package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Sim         SimConfig         `mapstructure:"sim"`
	Vending     VendingConfig     `mapstructure:"vending"`
	ATM         ATMConfig         `mapstructure:"atm"`
	Payment     PaymentConfig     `mapstructure:"payment"`
	TicTacToe   TicTacToeConfig   `mapstructure:"tictactoe"`
	SnakeLadder SnakeLadderConfig `mapstructure:"snakeladder"`
}

type ServerConfig struct {
	HTTPAddress     string        `mapstructure:"http_address"`
	RPCAddress      string        `mapstructure:"rpc_address"`
	MetricsAddress  string        `mapstructure:"metrics_address"`
	RoomIdleTimeout time.Duration `mapstructure:"room_idle_timeout"`
	MaxPlayers      int           `mapstructure:"max_players"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SimConfig holds the seed shared by every randomised strategy (dice,
// random playlists, banking simulators). Zero means seed from the clock.
type SimConfig struct {
	Seed int64 `mapstructure:"seed"`
}

type VendingConfig struct {
	Items int `mapstructure:"items"`
	Price int `mapstructure:"price"`
}

type TicTacToeConfig struct {
	BoardSize int `mapstructure:"board_size"`
}

// SnakeLadderConfig picks the board for hosted games. LayoutFile, when set,
// names a YAML layout and wins over Difficulty; an empty Difficulty means
// the standard 10x10 board.
type SnakeLadderConfig struct {
	Difficulty string `mapstructure:"difficulty"`
	BoardSide  int    `mapstructure:"board_side"`
	LayoutFile string `mapstructure:"layout_file"`
}

type ATMConfig struct {
	// Notes maps a denomination (as a string key, since yaml keys are
	// strings) to the number of notes loaded.
	Notes map[string]int `mapstructure:"notes"`
}

type PaymentConfig struct {
	Retries RetryConfig `mapstructure:"retries"`
}

type RetryConfig struct {
	Paytm    int `mapstructure:"paytm"`
	Razorpay int `mapstructure:"razorpay"`
}

// ErrInvalidDenomination is returned when an atm.notes key is not a positive integer.
var ErrInvalidDenomination = errors.New("invalid denomination")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":8081")
	v.SetDefault("server.metrics_address", ":9090")
	v.SetDefault("server.room_idle_timeout", 10*time.Minute)
	v.SetDefault("server.max_players", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("sim.seed", 0)
	v.SetDefault("vending.items", 2)
	v.SetDefault("vending.price", 20)
	v.SetDefault("atm.notes", map[string]int{"1000": 3, "500": 5, "200": 10, "100": 20})
	v.SetDefault("payment.retries.paytm", 3)
	v.SetDefault("payment.retries.razorpay", 1)
	v.SetDefault("tictactoe.board_size", 3)
	v.SetDefault("snakeladder.difficulty", "")
	v.SetDefault("snakeladder.board_side", 10)
	v.SetDefault("snakeladder.layout_file", "")
}

// LoadConfig reads config.yaml from path. A missing file is not an error:
// defaults and environment variables (SERVER_HTTP_ADDRESS, SIM_SEED, ...) apply.
func LoadConfig(path string) (config *Config, err error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	return
}

// Denominations converts the configured note stock into the map the cash
// dispenser expects.
func (c ATMConfig) Denominations() (map[int]int, error) {
	out := make(map[int]int, len(c.Notes))
	for k, n := range c.Notes {
		d, err := strconv.Atoi(k)
		if err != nil || d <= 0 {
			return nil, errors.Join(ErrInvalidDenomination, err)
		}
		out[d] = n
	}
	return out, nil
}
