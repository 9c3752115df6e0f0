package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"spot-trainer/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.RWMutex
	sink   io.Writer = os.Stdout
	closer io.Closer
)

// Init configures the global zerolog logger from cfg. When cfg.File is set
// every line is also appended to that file, which is truncated once it
// grows past cfg.MaxMB.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fileSink *sizeLimitedWriter
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newSizeLimitedWriter(path, cfg.MaxMB)
		if err != nil {
			return err
		}
		fileSink = w
		out = io.MultiWriter(os.Stdout, w)
	}

	var output io.Writer = out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
		if fileSink != nil {
			output = zerolog.MultiLevelWriter(output, fileSink)
		}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
	}
	sink, closer = out, nil
	if fileSink != nil {
		closer = fileSink
	}
	mu.Unlock()
	return nil
}

// Writer is the raw sink behind the global logger, for handlers that do not
// go through zerolog.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return sink
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	sink = os.Stdout
	return err
}
