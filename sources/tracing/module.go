package tracing

import (
	"grokcord/sources/platform"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var Module = fx.Module("tracing",
	fx.Provide(func() *Logger {
		return NewConsoleLogger(platform.Get("LOG_LEVEL", "debug"))
	}),
)

// FxLogger routes fx lifecycle events through the application logger.
func FxLogger(log *Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: log.With("scope", "fx").Slog()}
}
