package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/platform/logger"

	"github.com/gin-gonic/gin"
)

type testHTTPConfig struct{}

func (testHTTPConfig) GetHTTPAddr() string      { return ":0" }
func (testHTTPConfig) GetCORSOrigins() []string { return []string{"http://localhost:4200"} }
func (testHTTPConfig) GetRateLimitRPS() float64 { return 1 }
func (testHTTPConfig) GetRateLimitBurst() int   { return 2 }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "v1") })
	ctx.Voice.POST("/echo", func(c *gin.Context) { c.String(http.StatusOK, "voice") })
}

func newTestApp(health apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:  testHTTPConfig{},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRootHealthText(t *testing.T) {
	w := serve(New(newTestApp(nil)), http.MethodGet, "/")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "OK - MARMURFIT") {
		t.Fatalf("unexpected root response %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected request id and security headers")
	}
}

func TestAPIHealthReportsDatabase(t *testing.T) {
	if w := serve(New(newTestApp(nil)), http.MethodGet, "/api/health"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 without database, got %d", w.Code)
	}

	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	if w := serve(New(newTestApp(down)), http.MethodGet, "/api/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when database is down, got %d", w.Code)
	}
}

func TestModuleRoutesMounted(t *testing.T) {
	engine := New(newTestApp(nil))
	if w := serve(engine, http.MethodGet, "/api/v1/echo"); w.Body.String() != "v1" {
		t.Fatalf("expected v1 route, got %d", w.Code)
	}
	if w := serve(engine, http.MethodPost, "/voice/echo"); w.Body.String() != "voice" {
		t.Fatalf("expected voice route, got %d", w.Code)
	}
}

func TestVoiceRoutesAreRateLimited(t *testing.T) {
	engine := New(newTestApp(nil))
	var last int
	for i := 0; i < 5; i++ {
		last = serve(engine, http.MethodPost, "/voice/echo").Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}
