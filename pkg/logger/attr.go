package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RunID records the audit run identifier under the key "run_id".
func RunID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("run_id", id)
}

// Capability records a capability name under the key "capability".
func Capability(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("capability", name)
}

// Origin records the client origin under the key "origin".
func Origin(origin string) slog.Attr {
	if origin == "" {
		return slog.Attr{}
	}
	return slog.String("origin", origin)
}
