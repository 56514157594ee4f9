package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/logger"

	"github.com/google/uuid"
)

type testLeadsConfig struct {
	url     string
	timeout time.Duration
}

func (c testLeadsConfig) GetLeadsWebhookURL() string             { return c.url }
func (c testLeadsConfig) GetLeadsWebhookTimeout() time.Duration { return c.timeout }
func (c testLeadsConfig) GetLeadsSourceTag() string             { return "apel" }
func (c testLeadsConfig) GetLeadsEmailTo() string               { return "" }
func (c testLeadsConfig) GetLeadDedupeTTL() time.Duration       { return time.Hour }

func TestNewClientDisabledWithoutURL(t *testing.T) {
	if c := NewClient(testLeadsConfig{timeout: time.Second}, logger.Nop()); c != nil {
		t.Fatalf("expected nil client without URL")
	}
}

func TestDeliverPostsSheetRow(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(testLeadsConfig{url: srv.URL, timeout: time.Second}, logger.Nop())
	lead := domain.Lead{ID: uuid.New(), Source: "apel", WorkType: domain.WorkTypeUnknown, Material: "gri", AreaSquareMeters: 2, Estimate: 700}
	if err := c.Deliver(context.Background(), lead); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got["material"] != "gri" || got["estimare_ron"] != float64(700) || got["sursa"] != "apel" {
		t.Fatalf("unexpected row %v", got)
	}
}

func TestDeliverRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testLeadsConfig{url: srv.URL, timeout: time.Second}, logger.Nop())
	if err := c.Deliver(context.Background(), domain.Lead{ID: uuid.New()}); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestDeliverHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(testLeadsConfig{url: srv.URL, timeout: 50 * time.Millisecond}, logger.Nop())
	if err := c.Deliver(context.Background(), domain.Lead{ID: uuid.New()}); err == nil {
		t.Fatalf("expected timeout error")
	}
}
