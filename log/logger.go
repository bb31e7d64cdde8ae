// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels beyond the slog defaults.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Legacy verbosity levels, as accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

// contextLogger resolves the root logger on every call, so loggers declared as package
// variables follow handlers installed later by SetDefault.
type contextLogger struct {
	ctx []any
}

// WithContext returns a logger that prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

func (l *contextLogger) root() gethlog.Logger {
	return gethlog.Root().With(l.ctx...)
}

func (l *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(append(merged, l.ctx...), ctx...)
	return &contextLogger{ctx: merged}
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return gethlog.Root().Enabled(ctx, level)
}

// SetDefault installs h as the root handler.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// FromLegacyLevel converts a 0-9 verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return gethlog.FromLegacyLevel(lvl)
}

// LevelString returns a 5-character string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

func Trace(msg string, ctx ...any) { gethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { gethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { gethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { gethlog.Root().Error(msg, ctx...) }

// ParseLevel parses a level name as printed by LevelString, or a legacy verbosity digit.
func ParseLevel(s string) (slog.Level, error) {
	for _, l := range []slog.Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCrit} {
		if LevelString(l) == s {
			return l, nil
		}
	}
	if v, err := strconv.Atoi(s); err == nil && v >= LegacyLevelCrit && v <= LegacyLevelTrace {
		return FromLegacyLevel(v), nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
