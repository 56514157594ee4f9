package mailer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/logger"
)

type testSMTP struct{ host string }

func (c testSMTP) GetSMTPHost() string        { return c.host }
func (c testSMTP) GetSMTPPort() int           { return 587 }
func (c testSMTP) GetSMTPUsername() string    { return "" }
func (c testSMTP) GetSMTPPassword() string    { return "" }
func (c testSMTP) GetSMTPFromAddress() string { return "bot@marmurfit.ro" }
func (c testSMTP) GetSMTPFromName() string    { return "MARMURFIT Voice Bot" }
func (c testSMTP) IsSMTPEnabled() bool        { return c.host != "" }

type testLeads struct{ to string }

func (c testLeads) GetLeadsWebhookURL() string             { return "" }
func (c testLeads) GetLeadsWebhookTimeout() time.Duration { return time.Second }
func (c testLeads) GetLeadsSourceTag() string             { return "apel" }
func (c testLeads) GetLeadsEmailTo() string               { return c.to }
func (c testLeads) GetLeadDedupeTTL() time.Duration       { return time.Hour }

func TestNewSenderRequiresSMTPAndRecipient(t *testing.T) {
	if NewSender(testSMTP{}, testLeads{to: "sales@marmurfit.ro"}, logger.Nop()) != nil {
		t.Fatalf("expected nil sender without SMTP")
	}
	if NewSender(testSMTP{host: "smtp.example.com"}, testLeads{}, logger.Nop()) != nil {
		t.Fatalf("expected nil sender without recipient")
	}
	if NewSender(testSMTP{host: "smtp.example.com"}, testLeads{to: "sales@marmurfit.ro"}, logger.Nop()) == nil {
		t.Fatalf("expected sender")
	}
}

func TestBody(t *testing.T) {
	width, length := 40.0, 1.5
	body := Body(domain.Lead{
		Source:             "apel",
		WorkType:           domain.WorkTypeSill,
		Material:           "steel black",
		AreaSquareMeters:   0.6,
		WidthCentimeters:   &width,
		LengthLinearMeters: &length,
		Estimate:           390,
		Provider:           "twilio",
		CallID:             "CA1",
		CallerPhone:        "0722123456",
		Note:               domain.DefaultNote,
	})

	for _, want := range []string{
		"Tip lucrare: glaf\n",
		"Suprafata (m²): 0,6\n",
		"Latime (cm): 40\n",
		"Lungime (ml): 1,5\n",
		"Estimare (RON): 390\n",
		"Telefon: +40722123456\n",
		"Apel: twilio CA1\n",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Transcriere") {
		t.Fatalf("expected empty fields to be skipped")
	}
}

func TestBuildMessage(t *testing.T) {
	s := NewSender(testSMTP{host: "smtp.example.com"}, testLeads{to: "sales@marmurfit.ro"}, logger.Nop())
	msg, err := s.buildMessage(domain.Lead{Material: "gri", Estimate: 700})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rcpts, err := msg.GetRecipients()
	if err != nil || len(rcpts) != 1 || rcpts[0] != "sales@marmurfit.ro" {
		t.Fatalf("unexpected recipients %v, %v", rcpts, err)
	}
	if Subject(domain.Lead{Material: "gri", Estimate: 700}) != "Lead nou din apel: gri, 700 lei" {
		t.Fatalf("unexpected subject")
	}
}

func TestBuildMessageAttachesEstimatePDF(t *testing.T) {
	s := NewSender(testSMTP{host: "smtp.example.com"}, testLeads{to: "sales@marmurfit.ro"}, logger.Nop())
	s.renderPDF = func(domain.Lead) ([]byte, error) { return []byte("%PDF-1.3"), nil }

	msg, err := s.buildMessage(domain.Lead{Material: "gri", Estimate: 700})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := len(msg.GetAttachments()); got != 1 {
		t.Fatalf("expected 1 attachment, got %d", got)
	}

	var logged bytes.Buffer
	s.log = logger.NewWithWriter("production", &logged)
	s.renderPDF = func(domain.Lead) ([]byte, error) { return nil, errors.New("render failed") }
	msg, err = s.buildMessage(domain.Lead{Material: "gri", Estimate: 700})
	if err != nil {
		t.Fatalf("expected message without attachment, got error %v", err)
	}
	if got := len(msg.GetAttachments()); got != 0 {
		t.Fatalf("expected no attachment when rendering fails, got %d", got)
	}
	if !strings.Contains(logged.String(), "estimate pdf not attached") || !strings.Contains(logged.String(), "render failed") {
		t.Fatalf("expected render failure to be logged, got %q", logged.String())
	}
}
