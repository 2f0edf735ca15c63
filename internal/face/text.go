package face

import (
	"fmt"
	"log/slog"
)

// Buffer budgets, in bytes including the terminator the labels reserve.
const (
	TimeBufferSize  = 8
	StepsBufferSize = 12
)

// boundedf formats into a string that fits a buffer of size bytes. Output
// longer than size-1 bytes is truncated and a warning is logged.
func boundedf(logger *slog.Logger, label string, size int, format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	limit := size - 1
	if len(s) <= limit {
		return s
	}
	logger.Warn("label text truncated", "label", label, "text", s, "limit", limit)
	return s[:limit]
}
