package logfields

import "log/slog"

// Log field names shared across packages.
const (
	KeyIntent      = "intent"
	KeyCurrentTime = "current_time"
	KeyStartTime   = "start_time"
	KeyRunning     = "running"
	KeyPeriodMS    = "period_ms"
	KeySession     = "session_id"
	KeyPath        = "path"
	KeyMode        = "mode"
	KeyAddr        = "addr"
	KeyError       = "error"
)

func Intent(name string) slog.Attr   { return slog.String(KeyIntent, name) }
func CurrentTime(n int) slog.Attr    { return slog.Int(KeyCurrentTime, n) }
func StartTime(n int) slog.Attr      { return slog.Int(KeyStartTime, n) }
func Running(running bool) slog.Attr { return slog.Bool(KeyRunning, running) }
func PeriodMS(ms int64) slog.Attr    { return slog.Int64(KeyPeriodMS, ms) }
func Session(id string) slog.Attr    { return slog.String(KeySession, id) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Mode(m string) slog.Attr        { return slog.String(KeyMode, m) }
func Addr(a string) slog.Attr        { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
