package cassette

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Loggers derived with WithPrefix each get their own lock, so the shared writer needs one too.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// NewLogger for the command line tools.  verbose overrides level with debug.
func NewLogger(w io.Writer, level string, verbose bool) (*log.Logger, error) {
	var lvl, err = log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if verbose {
		lvl = log.DebugLevel
	}

	return log.NewWithOptions(&lockedWriter{w: w}, log.Options{ //nolint:exhaustruct
		Level:           lvl,
		ReportTimestamp: false,
	}), nil
}
