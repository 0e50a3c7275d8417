package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

// RedactionMask replaces sensitive values in logged payloads.
const RedactionMask = "********"

// SensitiveFields are the top-level JSON keys redacted before a payload is
// persisted.
var SensitiveFields = []string{"password"}

// RequestRecorder persists request log rows. The middleware is decoupled
// from the concrete store so tests can provide a mock.
type RequestRecorder interface {
	Record(log *models.RequestLog) error
}

// GormRequestRecorder writes request logs to the database.
type GormRequestRecorder struct {
	DB *gorm.DB
}

func (r *GormRequestRecorder) Record(log *models.RequestLog) error {
	return r.DB.Create(log).Error
}

// RequestLog records one row per API call: caller, redacted payload, status
// and client IP. The body is snapshotted before handlers consume it and
// restored so downstream binding still works. Logging failures never alter
// the response.
//
// Skipped: paths outside /api/, paths in excludePaths, and OPTIONS requests.
func RequestLog(logger *zap.Logger, recorder RequestRecorder, excludePaths []string) gin.HandlerFunc {
	excluded := make(map[string]struct{}, len(excludePaths))
	for _, p := range excludePaths {
		excluded[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		skip := !strings.HasPrefix(path, "/api/") || c.Request.Method == http.MethodOptions
		if _, ok := excluded[path]; ok {
			skip = true
		}
		if skip {
			c.Next()
			return
		}

		// Request bodies are single-read; snapshot and restore.
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		var userID *int64
		if user := CurrentUser(c); user != nil {
			userID = &user.ID
		}

		payload := resolvePayload(c.Request, body)
		entry := &models.RequestLog{
			UserID:         userID,
			Endpoint:       path,
			Method:         c.Request.Method,
			RequestPayload: &payload,
			ResponseStatus: c.Writer.Status(),
			IPAddress:      ClientIP(c.Request),
		}

		if err := recorder.Record(entry); err != nil {
			logger.Error("failed to record request log",
				zap.String("method", entry.Method),
				zap.String("endpoint", entry.Endpoint),
				zap.Error(err))
		}
	}
}

// resolvePayload decides what to persist for a request: query parameters
// for GETs, the redacted JSON body for JSON requests, a placeholder for
// anything else.
func resolvePayload(r *http.Request, body []byte) string {
	if r.Method == http.MethodGet {
		if len(r.URL.Query()) == 0 {
			return ""
		}
		return QueryParamsJSON(r.URL.Query())
	}

	if len(body) == 0 {
		return ""
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Sprintf("Non-JSON body (Content-Type: %s)", contentType)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "Could not decode request body."
	}
	for _, field := range SensitiveFields {
		if _, ok := payload[field]; ok {
			masked, _ := json.Marshal(RedactionMask)
			payload[field] = masked
		}
	}
	redacted, err := json.Marshal(payload)
	if err != nil {
		return "Could not decode request body."
	}
	return string(redacted)
}
