package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop().Sugar()

// Init replaces Log with a production logger at the given level
// ("debug", "info", "warn", "error"). An unknown level falls back to info.
func Init(level string) {
	cfg := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Set swaps the global logger, mostly for tests.
func Set(l *zap.SugaredLogger) {
	Log = l
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
