package flow

import "fmt"

// Error codes reported through the ErrorHandler callback. Codes are stable
// identifiers; messages are for humans and may change.
const (
	// CodeNodeTypeMissing is reported when a node's resolved type has no
	// registry entry. Rendering falls back to the default entry.
	CodeNodeTypeMissing = "003"
)

// ErrorHandler receives recoverable render anomalies out-of-band. Handlers
// must not panic and must not block: they run synchronously inside render
// resolution. A nil handler drops reports silently.
type ErrorHandler func(code, message string)

// report invokes the handler if one is configured.
func (h ErrorHandler) report(code, format string, args ...any) {
	if h == nil {
		return
	}
	h(code, fmt.Sprintf(format, args...))
}
