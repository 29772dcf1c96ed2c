package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level       string `mapstructure:"level"`
	Pretty      bool   `mapstructure:"pretty"`
	ServiceName string `mapstructure:"service_name"`

	// Shard, when set, is stamped on every line so output from several
	// generator processes can be told apart.
	Shard *Shard `mapstructure:"-"`

	// Output defaults to os.Stdout.
	Output io.Writer `mapstructure:"-"`
}

// Shard identifies the generator instance a process serves.
type Shard struct {
	ID     uint16
	Source string // "derived" or "config"
}

var (
	global   = New(Config{})
	initOnce sync.Once
)

// New builds a logger from cfg without touching the process logger.
func New(cfg Config) zerolog.Logger {
	zc := zerolog.New(sink(cfg)).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.ServiceName != "" {
		zc = zc.Str(FieldService, cfg.ServiceName)
	}
	if cfg.Shard != nil {
		zc = zc.Uint16(FieldShardID, cfg.Shard.ID)
		if cfg.Shard.Source != "" {
			zc = zc.Str(FieldShardSource, cfg.Shard.Source)
		}
	}
	return zc.Logger()
}

func sink(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.Pretty {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
}

// Init installs the process logger and routes the stdlib log package into
// it. Only the first call installs anything; every call returns the
// installed logger.
func Init(cfg Config) zerolog.Logger {
	initOnce.Do(func() {
		global = New(cfg)

		stdlog.SetFlags(0)
		stdlog.SetOutput(global.With().Str("source", "stdlog").Logger())
	})
	return global
}

// L returns the process logger.
func L() zerolog.Logger {
	return global
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// fall back to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
