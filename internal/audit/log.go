package audit

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"techflow.app/internal/auth"
	"techflow.app/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the audit request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit entry enriched with request and actor context.
// Callers must scrub sensitive fields before passing them in.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := obs.Logger().WithFields(logrus.Fields{
		"type":  "audit",
		"event": event,
	})
	if rid := RequestIDFromContext(ctx); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	if account, ok := auth.AccountFromContext(ctx); ok {
		entry = entry.WithField("actor_id", account.ID)
		if account.EnterpriseID != nil {
			entry = entry.WithField("actor_enterprise_id", *account.EnterpriseID)
		}
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	entry.Info("audit")
	return nil
}
