package logging

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog.Logger to Logger. The client uses it for
// human-readable console output.
type ZerologLogger struct {
	z zerolog.Logger
}

func NewZerologLogger(z zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{z: z}
}

// NewConsoleLogger writes colourless console lines to w.
func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	return NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

func (l *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.z.Debug().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	l.z.Info().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.z.Warn().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	l.z.Error().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{z: l.z.With().Fields(args).Logger()}
}
