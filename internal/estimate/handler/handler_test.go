package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marmurfit_voicebot/internal/catalog/domain"
	catalogservice "marmurfit_voicebot/internal/catalog/service"
	"marmurfit_voicebot/internal/estimate/service"
	"marmurfit_voicebot/internal/estimate/transport"
	"marmurfit_voicebot/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	val := validator.New()
	kb, err := catalogservice.New([]domain.Material{
		{Name: "gri", PricePerArea: 350},
		{Name: "steel black", PricePerArea: 650},
	}, val)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	engine := gin.New()
	engine.POST("/estimate", New(service.NewInterpreter(kb), val).Estimate)
	return engine
}

func postEstimate(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestEstimateComplete(t *testing.T) {
	w := postEstimate(newTestEngine(t), `{"text":"steel black 40 cm pe 1,5 ml"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body transport.EstimateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Complete || body.Material == nil || *body.Material != "steel black" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.EstimateRON == nil || *body.EstimateRON != 390 {
		t.Fatalf("expected estimate 390, got %v", body.EstimateRON)
	}
	if body.Mode != "sill" {
		t.Fatalf("expected sill mode, got %q", body.Mode)
	}
}

func TestEstimateOmitsAbsentFields(t *testing.T) {
	w := postEstimate(newTestEngine(t), `{"text":"bună ziua"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	raw := w.Body.String()
	for _, key := range []string{"material", "areaM2", "estimateRon"} {
		if strings.Contains(raw, `"`+key+`"`) {
			t.Fatalf("expected %s to be omitted: %s", key, raw)
		}
	}
	if !strings.Contains(raw, `"missing":"material"`) {
		t.Fatalf("expected missing material: %s", raw)
	}
}

func TestEstimateRejectsBadInput(t *testing.T) {
	engine := newTestEngine(t)

	for _, body := range []string{`not json`, `{"text":""}`, `{"text":"` + strings.Repeat("a", 501) + `"}`} {
		if w := postEstimate(engine, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %.20q: expected 400, got %d", body, w.Code)
		}
	}
}
