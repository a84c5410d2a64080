// Package audit records critical admin actions as structured log
// lines and live feed events.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"birlik.org/internal/auth"
	"birlik.org/internal/obs"
	"birlik.org/internal/stream"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for
// audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// requestIDFromContext extracts the audit request id from context if present.
func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Recorder writes audit entries and mirrors them onto the live admin
// stream when one is attached.
type Recorder struct {
	feed *stream.Stream
}

// NewRecorder builds a Recorder. feed may be nil when streaming is
// disabled.
func NewRecorder(feed *stream.Stream) *Recorder {
	return &Recorder{feed: feed}
}

// LogEvent writes an audit log entry enriched with request and actor
// context.
func (r *Recorder) LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	var actorID string
	if user, ok := auth.UserFromContext(ctx); ok {
		actorID = user.ID
		entry["actor_id"] = user.ID
		entry["actor_role"] = string(user.Role)
	}
	if len(fields) > 0 {
		copyFields := make(map[string]any, len(fields))
		for k, v := range fields {
			copyFields[k] = v
		}
		entry["fields"] = copyFields
	} else {
		entry["fields"] = map[string]any{}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))

	if r.feed != nil {
		r.feed.Publish(stream.AdminEvent{
			Event:   event,
			ActorID: actorID,
			Fields:  fields,
		})
	}
	return nil
}
