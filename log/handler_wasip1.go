//go:build wasip1

package log

import "log/slog"

// init routes the guest's default logger to stderr as JSON lines.
func init() {
	slog.SetDefault(slog.New(NewHandler()))
}
