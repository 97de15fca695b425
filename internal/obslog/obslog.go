// Package obslog builds the process-wide zap logger.
package obslog

import (
    "fmt"
    "os"
    "strings"
    "sync/atomic"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "github.com/jaminalder/codex-checkers/internal/config"
)

var global atomic.Pointer[zap.Logger]

func init() { global.Store(zap.NewNop()) }

// L returns the process logger; a no-op logger until Set is called.
func L() *zap.Logger { return global.Load() }

// Set replaces the process logger.
func Set(l *zap.Logger) {
    if l == nil {
        l = zap.NewNop()
    }
    global.Store(l)
}

// New builds a logger writing to stdout with the configured encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
    return NewWithSink(cfg, zapcore.AddSync(os.Stdout))
}

// NewWithSink is New with an explicit output, used by tests.
func NewWithSink(cfg config.LogConfig, sink zapcore.WriteSyncer) (*zap.Logger, error) {
    level := zapcore.InfoLevel
    if s := strings.TrimSpace(cfg.Level); s != "" {
        lv, err := zapcore.ParseLevel(s)
        if err != nil {
            return nil, fmt.Errorf("log level: %w", err)
        }
        level = lv
    }
    var enc zapcore.Encoder
    switch strings.ToLower(cfg.Format) {
    case "json":
        enc = zapcore.NewJSONEncoder(jsonEncoderConfig())
    default:
        enc = zapcore.NewConsoleEncoder(consoleEncoderConfig())
    }
    logger := zap.New(zapcore.NewCore(enc, sink, level))
    if cfg.Caller {
        logger = logger.WithOptions(zap.AddCaller())
    }
    return logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
    c := zap.NewProductionEncoderConfig()
    c.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
    c.EncodeLevel = zapcore.CapitalLevelEncoder
    c.ConsoleSeparator = " | "
    return c
}

func jsonEncoderConfig() zapcore.EncoderConfig {
    c := zap.NewProductionEncoderConfig()
    c.EncodeTime = zapcore.ISO8601TimeEncoder
    c.EncodeLevel = zapcore.LowercaseLevelEncoder
    return c
}
