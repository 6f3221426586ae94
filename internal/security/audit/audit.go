package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, userID, role, action, entite, entiteID, status, details string) {
	requestID := ""
	if reqID := ctx.Value("request_id"); reqID != nil {
		requestID = reqID.(string)
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("entite", entite),
		slog.String("entite_id", entiteID),
		slog.String("user_id", userID),
		slog.String("role", role),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogMutation(ctx context.Context, userID, role, method, entite, entiteID string) {
	al.LogAction(ctx, userID, role, method, entite, entiteID, "initiated", "")
}

func (al *Logger) LogLocation(ctx context.Context, userID, role, chambreID, locataireID, status string) {
	al.LogAction(ctx, userID, role, "louer", "location", chambreID, status, "locataire="+locataireID)
}

func (al *Logger) LogDenied(ctx context.Context, userID, role, reason string) {
	al.LogAction(ctx, userID, role, "access_denied", "api", "", "denied", reason)
}
