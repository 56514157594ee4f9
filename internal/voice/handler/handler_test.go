package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"marmurfit_voicebot/internal/catalog/domain"
	catalogservice "marmurfit_voicebot/internal/catalog/service"
	estimateservice "marmurfit_voicebot/internal/estimate/service"
	"marmurfit_voicebot/internal/events"
	leadsdomain "marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/internal/telephony"
	"marmurfit_voicebot/internal/voice/service"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/validator"

	"github.com/gin-gonic/gin"
)

const testBaseURL = "https://bot.marmurfit.ro"

type recordingPublisher struct {
	mu    sync.Mutex
	leads []leadsdomain.Lead
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, lead leadsdomain.Lead) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leads = append(p.leads, lead)
	return p.err
}

type testEnv struct {
	engine    *gin.Engine
	publisher *recordingPublisher
	bus       *events.InMemoryBus
	summaries chan events.SummaryRequested
}

func newTestEnv(t *testing.T, authToken string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kb, err := catalogservice.New([]domain.Material{
		{Name: "gri", PricePerArea: 350},
		{Name: "steel black", PricePerArea: 650},
	}, validator.New())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	env := &testEnv{
		publisher: &recordingPublisher{},
		bus:       events.NewInMemoryBus(logger.Nop()),
		summaries: make(chan events.SummaryRequested, 1),
	}
	env.bus.Subscribe(events.SummaryRequested{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		env.summaries <- e.(events.SummaryRequested)
		return nil
	}))

	flow := service.NewFlow(estimateservice.NewInterpreter(kb), kb, service.Options{BaseURL: testBaseURL, MaxReprompts: 2})
	h := New(flow, telephony.NewRegistry(telephony.Speech{Language: "ro-RO"}), env.publisher, env.bus,
		Config{TwilioAuthToken: authToken, PublicBaseURL: testBaseURL}, logger.Nop())

	env.engine = gin.New()
	calls := env.engine.Group("/voice/:provider", h.ResolveProvider())
	calls.POST("", h.Greeting)
	calls.POST("/collect", h.Collect)
	calls.POST("/final", h.Final)
	return env
}

func (e *testEnv) post(path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestGreetingRendersTwiML(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.post("/voice/twilio", url.Values{"CallSid": {"CA1"}}, nil)

	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml") {
		t.Fatalf("unexpected response %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	body := w.Body.String()
	if !strings.Contains(body, `<Gather input="speech" action="https://bot.marmurfit.ro/voice/twilio/collect?attempt=1"`) {
		t.Fatalf("unexpected greeting %s", body)
	}
	if !strings.Contains(body, `<Redirect method="POST">https://bot.marmurfit.ro/voice/twilio/collect?attempt=1</Redirect>`) {
		t.Fatalf("expected redirect on silence: %s", body)
	}
}

func TestUnknownProvider(t *testing.T) {
	env := newTestEnv(t, "")
	if w := env.post("/voice/vonage", url.Values{}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCollectCompletePublishesLead(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.post("/voice/twilio/collect?attempt=1", url.Values{
		"CallSid":      {"CA42"},
		"From":         {"+40722123456"},
		"SpeechResult": {"gri 2 metri patrati"},
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Estimarea orientativa este aproximativ 700 lei") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if len(env.publisher.leads) != 1 {
		t.Fatalf("expected one lead, got %d", len(env.publisher.leads))
	}
	lead := env.publisher.leads[0]
	if lead.CallID != "CA42" || lead.Provider != "twilio" || lead.Estimate != 700 || lead.CallerPhone != "+40722123456" {
		t.Fatalf("unexpected lead %+v", lead)
	}
}

func TestCollectPublishFailureDoesNotAffectCaller(t *testing.T) {
	env := newTestEnv(t, "")
	env.publisher.err = errors.New("redis down")
	w := env.post("/voice/twilio/collect", url.Values{"SpeechResult": {"gri 2 m2"}}, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "700 lei") {
		t.Fatalf("expected the estimate to be spoken anyway, got %d", w.Code)
	}
}

func TestCollectIncompleteRepromptsWithoutLead(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.post("/voice/plivo/collect?attempt=1", url.Values{"CallUUID": {"u1"}, "Speech": {"steel black"}}, nil)

	body := w.Body.String()
	if !strings.Contains(body, "<GetInput") || !strings.Contains(body, "Care este suprafata in metri patrati") {
		t.Fatalf("expected plivo measurement reprompt, got %s", body)
	}
	if !strings.Contains(body, "collect?attempt=2") {
		t.Fatalf("expected next attempt in action: %s", body)
	}
	if len(env.publisher.leads) != 0 {
		t.Fatalf("incomplete turns must not publish leads")
	}
}

func TestCollectFallbackHangsUp(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.post("/voice/twilio/collect?attempt=2", url.Values{"SpeechResult": {"nu stiu"}}, nil)
	if !strings.Contains(w.Body.String(), "<Hangup></Hangup>") {
		t.Fatalf("expected hangup after max attempts: %s", w.Body.String())
	}
}

func TestFinalRequestsSummary(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.post("/voice/twilio/final?material=gri&area=2&estimate=700", url.Values{
		"CallSid":      {"CA42"},
		"From":         {"0722123456"},
		"SpeechResult": {"da"},
	}, nil)

	if !strings.Contains(w.Body.String(), "Multumesc! Trimit rezumatul. O zi excelenta din partea MARMURFIT!</Say><Hangup></Hangup>") {
		t.Fatalf("unexpected final body %s", w.Body.String())
	}
	env.bus.Wait()
	select {
	case e := <-env.summaries:
		if e.CallerPhone != "+40722123456" || e.CallID != "CA42" || !strings.Contains(e.Summary, "700 lei") {
			t.Fatalf("unexpected summary event %+v", e)
		}
	default:
		t.Fatalf("expected a summary request")
	}
}

func TestFinalDeclinedDoesNotRequestSummary(t *testing.T) {
	env := newTestEnv(t, "")
	env.post("/voice/twilio/final?material=gri&area=2&estimate=700", url.Values{"SpeechResult": {"nu"}}, nil)
	env.bus.Wait()
	select {
	case e := <-env.summaries:
		t.Fatalf("unexpected summary %+v", e)
	default:
	}
}

func TestTwilioSignatureEnforced(t *testing.T) {
	const token = "secret-token"
	env := newTestEnv(t, token)
	form := url.Values{"CallSid": {"CA1"}, "From": {"+40722123456"}}

	if w := env.post("/voice/twilio", form, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", w.Code)
	}

	sig := telephony.TwilioSignature(token, testBaseURL+"/voice/twilio", form)
	if w := env.post("/voice/twilio", form, map[string]string{telephony.HeaderTwilioSignature: sig}); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid signature, got %d", w.Code)
	}

	if w := env.post("/voice/plivo", url.Values{}, nil); w.Code != http.StatusOK {
		t.Fatalf("plivo webhooks are not signed with the twilio token, got %d", w.Code)
	}
}
