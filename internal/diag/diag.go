// Package diag reports and accumulates diagnostics (scan, parse,
// check and runtime errors) the way the original's report() free
// function did, but backed by a *logrus.Logger: every diagnostic is a
// log entry carrying "line" and "stage" fields, while the written
// output is always the plain "[line N] Stage Error: msg" line.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Sink accumulates error state across one scan/parse/check/run cycle
// and reports diagnostics through a logrus.Logger. The REPL resets it
// between interactions; the file runner consults HadError/
// HadRuntimeError to pick its exit code.
type Sink struct {
	HadError        bool
	HadRuntimeError bool

	log *logrus.Logger
}

// New builds a Sink writing to w (os.Stderr in production, a
// strings.Builder or bytes.Buffer in tests).
func New(w io.Writer) *Sink {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&lineFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return &Sink{log: log}
}

// Default builds a Sink writing to os.Stderr.
func Default() *Sink {
	return New(os.Stderr)
}

// Report records a stage-tagged error at the given source line and
// logs it in the "[line N] Stage Error: msg" wire format.
func (s *Sink) Report(line int, stage, msg string) {
	s.HadError = true
	s.log.WithFields(logrus.Fields{"line": line, "stage": stage}).Error(msg)
}

// ReportRuntime records a runtime fault, the one category that also
// sets HadRuntimeError (distinct exit code 70 vs. 64 at the CLI).
func (s *Sink) ReportRuntime(line int, msg string) {
	s.HadRuntimeError = true
	s.log.WithFields(logrus.Fields{"line": line, "stage": "Interprete"}).Error(msg)
}

// Reset clears accumulated error state between REPL interactions.
func (s *Sink) Reset() {
	s.HadError = false
	s.HadRuntimeError = false
}

// lineFormatter renders log entries as "[line N] Stage Error: msg\n",
// matching original_source/Error/Error.cpp's report() exactly, instead
// of logrus's default key=value layout.
type lineFormatter struct{}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line, _ := e.Data["line"].(int)
	stage, _ := e.Data["stage"].(string)
	msg := fmt.Sprintf("[line %d] %s Error: %s\n", line, stage, e.Message)
	return []byte(msg), nil
}
