package keyitem

import (
	"io"
	"log/slog"
)

// logger is the package-wide logging sink. It discards everything by
// default — this is a library, not an application, so it stays silent
// unless a host explicitly calls SetLogger.
var logger *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs l as the destination for this package's Debug/Warn
// calls. Passing nil restores the discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	logger = l
}
