package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level         string // debug, info, warn, error
	Format        string // json, pretty
	FilePath      string // logs directory, empty disables file output
	RotationSize  int    // MB
	RetentionDays int
	ServiceName   string
}

// New builds a logger writing to out (stderr when nil) and, if configured,
// to a rotating file under cfg.FilePath
func New(cfg Config, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stderr
	}

	var writers []io.Writer

	// Console writer
	if cfg.Format == "pretty" {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		})
	} else {
		writers = append(writers, out)
	}

	// File writer (if enabled)
	if cfg.FilePath != "" {
		if err := os.MkdirAll(cfg.FilePath, 0755); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.FilePath, "quotedetail.log"),
			MaxSize:    cfg.RotationSize,  // MB
			MaxAge:     cfg.RetentionDays, // days
			MaxBackups: 5,
			Compress:   true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()

	return logger, nil
}

// Init initializes the global logger
func Init(cfg Config) error {
	logger, err := New(cfg, nil)
	if err != nil {
		return err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger

	log.Debug().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Bool("file_enabled", cfg.FilePath != "").
		Msg("Logger initialized")

	return nil
}
