package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marmurfit_voicebot/platform/apperr"
	"marmurfit_voicebot/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("material not found"), http.StatusNotFound},
		{apperr.Validation("bad text"), http.StatusBadRequest},
		{apperr.Unauthorized("bad signature"), http.StatusUnauthorized},
		{errors.New("raw"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		if !HandleError(c, tc.err) {
			t.Fatalf("expected error to be handled")
		}
		if w.Code != tc.want {
			t.Fatalf("expected status %d for %v, got %d", tc.want, tc.err, w.Code)
		}
	}
}

func TestHandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if HandleError(c, nil) {
		t.Fatalf("nil error should not be handled")
	}
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Nop())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.POST("/voice", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/voice", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	engine.ServeHTTP(w, req)

	if w.Header().Get(HeaderRequestID) != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("expected request id to be propagated, got header %q body %q", w.Header().Get(HeaderRequestID), w.Body.String())
	}
}
