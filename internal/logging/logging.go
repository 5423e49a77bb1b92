package logging

import (
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shapedtime/guessit/internal/config"
)

// Load configures the global logger from cfg and returns it. The console
// output goes to stderr so stdout stays clean for guess results.
func Load(cfg config.LogConfig) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		TimeFormat: time.RFC3339,
	}
	return Configure(cfg, console)
}

// Configure is Load with an explicit console writer.
func Configure(cfg config.LogConfig, console io.Writer) zerolog.Logger {
	writers := []io.Writer{console}
	if cfg.Path != "" {
		writers = append(writers, newRollingFile(cfg))
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if l, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = l
		}
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()

	log.Logger = l
	return l
}

func newRollingFile(cfg config.LogConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxBackups: cfg.MaxBackups,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
	}
}

// Component returns a child of the global logger tagged with name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Quiet drops everything below error level, for CLI runs without -v.
func Quiet() {
	log.Logger = log.Logger.Level(zerolog.ErrorLevel)
}

// Discard silences the global logger.
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}
