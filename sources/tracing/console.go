package tracing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	ExecutionTime    = "exe_time"
	Operation        = "operation"
	OutsiderKind     = "outsider_kind"
	ProxyUrl         = "proxy_url"
	ProxyRes         = "proxy_res"
	AiKind           = "ai_kind"
	AiModel          = "ai_model"
	AiAttempt        = "ai_attempt"
	AiBackoff        = "ai_backoff"
	AiTokens         = "ai_tokens"
	AiCost           = "ai_cost"
	AiBrevity        = "ai_brevity"
	InnerError       = "inner_error"
	CorrelationId    = "correlation_id"
	UserId           = "user_id"
	UserName         = "user_name"
	GuildId          = "guild_id"
	ChannelId        = "channel_id"
	MessageId        = "message_id"
	ConversationKey  = "conversation_key"
	TranscriptTurns  = "transcript_turns"
	TranscriptSize   = "transcript_size"
	AttachmentName   = "attachment_name"
	CommandIssued    = "command_issued"
	LimiterBackend   = "limiter_backend"
	FeatureName      = "feature_name"
	SqlQuery         = "sql_query"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger(level string) *Logger {
	return NewLogger(os.Stdout, level)
}

func NewLogger(w io.Writer, level string) *Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))

	logger.Debug("Initializing logger", "level", level)
	return &Logger{log: logger, ctx: context.Background()}
}

// ParseLevel maps a config string onto a slog level, defaulting to debug.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
