package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the default log file, relative to the working directory (project root when run via go run ./cmd/vimana).
const LogFilePath = "logs/vimana.txt"

// maxLines bounds the in-memory history shown by the in-game console.
const maxLines = 500

const lineTimeFormat = "2006-01-02 15:04:05"

// Options controls where log output goes. Path "" disables the file sink.
type Options struct {
	Level   string
	Console bool
	Path    string
}

// Logger fans zerolog events out to the console, a log file, and an in-memory line buffer
// that the in-game console draws from.
type Logger struct {
	zl   zerolog.Logger
	file *os.File

	mu    sync.Mutex
	lines []string
}

// New builds a Logger. The log directory is created if needed.
func New(opts Options) (*Logger, error) {
	l := &Logger{lines: make([]string, 0, 64)}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: lineSink{l}, NoColor: true, TimeFormat: lineTimeFormat},
	}
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339})
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Logger()
	return l, nil
}

// Nop returns a Logger that discards everything except the in-memory lines.
func Nop() *Logger {
	l, _ := New(Options{Level: "info"})
	return l
}

// ParseLevel converts a config level name to a zerolog level; unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Zerolog returns the underlying logger for components.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// With returns a child logger tagged with the component name.
func (l *Logger) With(component string) zerolog.Logger {
	return l.zl.With().Str("component", component).Logger()
}

// Log records a free-form line at info level (console input, command output).
func (l *Logger) Log(line string) {
	l.zl.Info().Msg(line)
}

// Lines returns a copy of the buffered lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) appendLine(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-maxLines:]...)
	}
	l.mu.Unlock()
}

// lineSink receives one formatted event per Write from zerolog.ConsoleWriter.
type lineSink struct{ l *Logger }

func (s lineSink) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			s.l.appendLine(line)
		}
	}
	return len(p), nil
}
