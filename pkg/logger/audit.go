package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types
const (
	EventRegister       = "register"
	EventOTPIssued      = "otp_issued"
	EventOTPVerified    = "otp_verified"
	EventLogin          = "login"
	EventAdminRequested = "admin_requested"
	EventAdminApproved  = "admin_approved"
	EventAdminRejected  = "admin_rejected"
	EventQuizCreated    = "quiz_created"
	EventQuizDeleted    = "quiz_deleted"
	EventScoreSubmitted = "score_submitted"
)

// AuditEvent is a security relevant event.
type AuditEvent struct {
	EventType     string
	Actor         string // username or user id, whichever the caller has
	IPAddress     string // taken from the context when empty
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

type clientIPKey struct{}

// WithClientIP returns a copy of ctx carrying the caller's IP address for
// audit records.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the IP stored by WithClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// AuditLogger writes audit events as structured log records.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogAuthAttempt records a register, OTP or login attempt. Failures are logged
// at warn level.
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	attrs = appendEventAttrs(ctx, attrs, event)

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogAccountAction records a state change made to an account or its data.
func (al *AuditLogger) LogAccountAction(ctx context.Context, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "account"),
		slog.String("event_type", event.EventType),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	event.FailureReason = ""
	attrs = appendEventAttrs(ctx, attrs, event)

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

func appendEventAttrs(ctx context.Context, attrs []slog.Attr, event AuditEvent) []slog.Attr {
	if event.Actor != "" {
		attrs = append(attrs, slog.String("actor", event.Actor))
	}
	if event.IPAddress == "" {
		event.IPAddress = ClientIPFromContext(ctx)
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}
	return attrs
}
