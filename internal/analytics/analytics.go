package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"finadvise-backend/pkg/logging"
)

type CtxKey string

const (
	ctxSubjectKey CtxKey = "analytics_subject"
)

// Envelope is what we store with every event.
type Envelope struct {
	Subject      string
	RequestID    string
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	if platform != "ios" && platform != "android" && platform != "web" {
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	subject, _ := SubjectFromContext(r.Context())

	return Envelope{
		Subject:      subject,
		RequestID:    middleware.GetReqID(r.Context()),
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxSubjectKey, subject)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxSubjectKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Client-provided idempotency key (optional)
// If present and duplicates, insert is ignored.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Recorder writes analytics events to Postgres. A nil Recorder, or one
// without a database, drops events.
type Recorder struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

func NewRecorder(db *sql.DB, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{db: db, logger: logger, now: time.Now}
}

// Log inserts one event. Callers pass sanitized props only: no request or
// reply text is ever stored.
func (rec *Recorder) Log(ctx context.Context, env Envelope, eventName string, props any, sourceEventKey string) error {
	if rec == nil || rec.db == nil || eventName == "" {
		return nil
	}

	b, err := json.Marshal(props)
	if err != nil {
		return err
	}

	if sourceEventKey != "" {
		_, err = rec.db.ExecContext(ctx, `
			INSERT INTO analytics_events (
				event_name, event_time,
				subject, request_id, session_id,
				platform, app_version, device_locale,
				source_event_key,
				properties
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
			ON CONFLICT (source_event_key) DO NOTHING
		`, eventName, rec.now().UTC(),
			nullIfEmpty(env.Subject), nullIfEmpty(env.RequestID), nullIfEmpty(env.SessionID),
			env.Platform, nullIfEmpty(env.AppVersion), nullIfEmpty(env.DeviceLocale),
			sourceEventKey,
			string(b),
		)
		return err
	}

	_, err = rec.db.ExecContext(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			subject, request_id, session_id,
			platform, app_version, device_locale,
			properties
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
	`, eventName, rec.now().UTC(),
		nullIfEmpty(env.Subject), nullIfEmpty(env.RequestID), nullIfEmpty(env.SessionID),
		env.Platform, nullIfEmpty(env.AppVersion), nullIfEmpty(env.DeviceLocale),
		string(b),
	)
	return err
}

// Record logs an event for r and swallows failures; analytics never breaks
// the request it describes.
func (rec *Recorder) Record(r *http.Request, eventName string, props map[string]any) {
	if rec == nil || rec.db == nil {
		return
	}
	if err := rec.Log(r.Context(), FromRequest(r), eventName, props, SourceEventKeyFromRequest(r)); err != nil {
		rec.logger.Warn().Err(err).Str("event", eventName).Msg("analytics insert failed")
	}
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
