package bitmap

import (
	"log/slog"

	"github.com/gogpu/bitmap/backend"
)

// SetLogger configures the logger for bitmap and all its sub-packages.
// By default no log output is produced. Pass nil to restore the
// default silent behavior.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	backend.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return backend.Logger()
}
