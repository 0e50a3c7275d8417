package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daruyab/internal/database/models"
)

type mockRecorder struct {
	logs []*models.RequestLog
	err  error
}

func (m *mockRecorder) Record(log *models.RequestLog) error {
	m.logs = append(m.logs, log)
	return m.err
}

func newLogTestRouter(recorder RequestRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLog(zap.NewNop(), recorder, []string{"/api/swagger/"}))
	handle := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/drugs/", handle)
	r.GET("/api/swagger/", handle)
	r.GET("/health", handle)
	r.POST("/api/token/", handle)
	r.POST("/api/drugs/", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusCreated, gin.H{"received": len(body)})
	})
	r.OPTIONS("/api/drugs/", handle)
	return r
}

func perform(r *gin.Engine, method, target, body, contentType string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestLogRedactsPassword(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodPost, "/api/token/",
		`{"contact_number":"09121234567","password":"hunter2"}`, "application/json")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	payload := *rec.logs[0].RequestPayload
	if strings.Contains(payload, "hunter2") {
		t.Errorf("password leaked into payload: %s", payload)
	}
	if !strings.Contains(payload, `"password":"********"`) {
		t.Errorf("password not masked: %s", payload)
	}
	if !strings.Contains(payload, "09121234567") {
		t.Errorf("non-sensitive fields should survive: %s", payload)
	}
}

func TestRequestLogSkipRules(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
	}{
		{"non-api path", http.MethodGet, "/health"},
		{"excluded path", http.MethodGet, "/api/swagger/"},
		{"preflight", http.MethodOptions, "/api/drugs/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockRecorder{}
			r := newLogTestRouter(rec)
			perform(r, tt.method, tt.target, "", "")
			if len(rec.logs) != 0 {
				t.Errorf("expected no log for %s %s", tt.method, tt.target)
			}
		})
	}
}

func TestRequestLogCapturesGetQueryParams(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodGet, "/api/drugs/?generic_name=ibuprofen&page=2", "", "")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	payload := *rec.logs[0].RequestPayload
	if !strings.Contains(payload, `"generic_name":"ibuprofen"`) || !strings.Contains(payload, `"page":"2"`) {
		t.Errorf("query params missing from payload: %s", payload)
	}
}

func TestRequestLogEmptyGetHasEmptyPayload(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodGet, "/api/drugs/", "", "")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	if got := *rec.logs[0].RequestPayload; got != "" {
		t.Errorf("expected empty payload, got %q", got)
	}
}

func TestRequestLogNonJSONBodyPlaceholder(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodPost, "/api/drugs/", "name=foo", "application/x-www-form-urlencoded")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	want := "Non-JSON body (Content-Type: application/x-www-form-urlencoded)"
	if got := *rec.logs[0].RequestPayload; got != want {
		t.Errorf("payload = %q, want %q", got, want)
	}
}

func TestRequestLogUndecodableBodyPlaceholder(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodPost, "/api/drugs/", "{not json", "application/json")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	if got := *rec.logs[0].RequestPayload; got != "Could not decode request body." {
		t.Errorf("payload = %q", got)
	}
}

func TestRequestLogBodyStaysReadableDownstream(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	body := `{"generic_name":"ibuprofen"}`
	w := perform(r, http.MethodPost, "/api/drugs/", body, "application/json")

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":28`) {
		t.Errorf("handler should see the full body, got %s", w.Body.String())
	}
}

func TestRequestLogRecordsStatusAndMethod(t *testing.T) {
	rec := &mockRecorder{}
	r := newLogTestRouter(rec)

	perform(r, http.MethodPost, "/api/drugs/", `{}`, "application/json")

	if len(rec.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(rec.logs))
	}
	entry := rec.logs[0]
	if entry.ResponseStatus != http.StatusCreated {
		t.Errorf("status = %d", entry.ResponseStatus)
	}
	if entry.Method != http.MethodPost || entry.Endpoint != "/api/drugs/" {
		t.Errorf("method/endpoint = %s %s", entry.Method, entry.Endpoint)
	}
}

func TestRequestLogFailureDoesNotAlterResponse(t *testing.T) {
	rec := &mockRecorder{err: errors.New("db down")}
	r := newLogTestRouter(rec)

	w := perform(r, http.MethodGet, "/api/drugs/", "", "")

	if w.Code != http.StatusOK {
		t.Errorf("recorder failure must not change the response, got %d", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/drugs/", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	if got := ClientIP(req); got != "10.0.0.9" {
		t.Errorf("ClientIP = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP with XFF = %q", got)
	}
}

func TestQueryParamsJSONTakesFirstValue(t *testing.T) {
	got := QueryParamsJSON(url.Values{"page": {"1", "2"}})
	if got != `{"page":"1"}` {
		t.Errorf("QueryParamsJSON = %q", got)
	}
}
