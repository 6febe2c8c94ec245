package logfields

import "log/slog"

// Canonical log field names shared by every package that logs.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyPage        = "page"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyPath        = "path"
	KeyCount       = "count"
	KeyDurationMS  = "duration_ms"
	KeyRule        = "rule"
	KeyAddr        = "addr"
	KeyEvent       = "event"
	KeyError       = "error"
)

func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func Page(p string) slog.Attr { return slog.String(KeyPage, p) }
func Source(p string) slog.Attr { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr { return slog.String(KeyDestination, p) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Rule(name string) slog.Attr { return slog.String(KeyRule, name) }
func Addr(addr string) slog.Attr { return slog.String(KeyAddr, addr) }
func Event(name string) slog.Attr { return slog.String(KeyEvent, name) }

// Error renders err as a string attribute; a nil error yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
