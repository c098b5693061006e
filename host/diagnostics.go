package host

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"

	udflog "github.com/udfkit/udf-go/log"
)

// MaxDiagnosticLine bounds one buffered line of guest stderr. Longer lines are cut at the limit
// and logged as truncated.
const MaxDiagnosticLine = 64 * 1024

// DiagnosticWriter is an io.Writer for a guest's stderr. Each complete line that parses as a
// guest log record is re-emitted through the logger at its original level; anything else is
// logged verbatim at info.
type DiagnosticWriter struct {
	mu        sync.Mutex
	logger    *slog.Logger
	pending   []byte
	truncated bool
	last      *udflog.LogMessageWire
}

// NewDiagnosticWriter creates a DiagnosticWriter emitting to logger.
func NewDiagnosticWriter(logger *slog.Logger) *DiagnosticWriter {
	return &DiagnosticWriter{logger: logger}
}

// Write implements io.Writer. It never fails and always reports len(p) bytes written.
func (w *DiagnosticWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.buffer(p)
			break
		}
		w.buffer(p[:i])
		w.flushLine()
		p = p[i+1:]
	}
	return n, nil
}

func (w *DiagnosticWriter) buffer(chunk []byte) {
	remaining := MaxDiagnosticLine - len(w.pending)
	if len(chunk) > remaining {
		chunk = chunk[:remaining]
		w.truncated = true
	}
	w.pending = append(w.pending, chunk...)
}

func (w *DiagnosticWriter) flushLine() {
	w.emit(w.pending, w.truncated)
	w.pending = w.pending[:0]
	w.truncated = false
}

// Flush emits a trailing partial line, if any.
func (w *DiagnosticWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) > 0 {
		w.flushLine()
	}
}

// Last returns the most recent record at error level or above.
func (w *DiagnosticWriter) Last() (udflog.LogMessageWire, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.last == nil {
		return udflog.LogMessageWire{}, false
	}
	return *w.last, true
}

// Reset forgets the last error record.
func (w *DiagnosticWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = nil
}

func (w *DiagnosticWriter) emit(line []byte, truncated bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	if truncated {
		w.logger.Info("guest output", "line", string(line), "truncated", true)
		return
	}
	rec, err := udflog.ParseLine(line)
	if err != nil {
		w.logger.Info("guest output", "line", string(line))
		return
	}

	level := rec.SlogLevel()
	w.logger.Log(context.Background(), level, rec.Message, rec.Args()...)
	if level >= slog.LevelError {
		w.last = &rec
	}
}

// summarize renders a record as "message key=value ...".
func summarize(rec udflog.LogMessageWire) string {
	var sb strings.Builder
	sb.WriteString(rec.Message)
	for _, attr := range rec.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr.Key)
		sb.WriteByte('=')
		sb.WriteString(attr.Value)
	}
	return sb.String()
}
