// Package trace reports command outcomes to the console.
package trace

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Reporter receives informational and error messages about command outcomes.
type Reporter interface {
	Info(msg string)
	Error(msg string)
}

// Trace is a Reporter that writes timestamped, leveled lines through zerolog.
type Trace struct {
	log zerolog.Logger
}

// New returns a Trace writing to w. Color is disabled when noColor is set.
func New(w io.Writer, noColor bool) *Trace {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}
	return &Trace{log: zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()}
}

// NoColor reports whether output to w should be plain: NO_COLOR is set or w
// is not a terminal.
func NoColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func (t *Trace) Info(msg string) {
	t.log.Info().Msg(msg)
}

func (t *Trace) Error(msg string) {
	t.log.Error().Msg(msg)
}

// SetDebug enables or disables debug output.
func (t *Trace) SetDebug(debug bool) {
	if debug {
		t.log = t.log.Level(zerolog.DebugLevel)
	} else {
		t.log = t.log.Level(zerolog.InfoLevel)
	}
}

// Logger returns the underlying logger, for components that log subprocess
// activity at debug level.
func (t *Trace) Logger() zerolog.Logger {
	return t.log
}

// Recorder is a Reporter that keeps messages in memory.
type Recorder struct {
	Infos  []string
	Errors []string
}

func (r *Recorder) Info(msg string) {
	r.Infos = append(r.Infos, msg)
}

func (r *Recorder) Error(msg string) {
	r.Errors = append(r.Errors, msg)
}
