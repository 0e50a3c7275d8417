package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRateLimitBlocksPastTheLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(zap.NewNop(), "2-M"))
	r.GET("/api/drugs/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/drugs/", nil)
		req.RemoteAddr = "10.1.2.3:41000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := hit(); code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, code)
		}
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Errorf("third request should be throttled, got %d", code)
	}
}
