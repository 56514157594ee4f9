// Package mailer emails each captured lead to the sales inbox.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/internal/pdf"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/phone"

	gomail "github.com/wneessen/go-mail"
)

const subjectLeadFmt = "Lead nou din apel: %s, %d lei"

// Sender delivers lead notifications over SMTP with the estimate PDF attached.
type Sender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	to        string
	renderPDF func(domain.Lead) ([]byte, error)
	log       *logger.Logger
}

// NewSender returns nil unless both SMTP and a recipient are configured.
func NewSender(smtp config.SMTPConfig, leads config.LeadsConfig, log *logger.Logger) *Sender {
	if !smtp.IsSMTPEnabled() || leads.GetLeadsEmailTo() == "" {
		return nil
	}
	return &Sender{
		host:      smtp.GetSMTPHost(),
		port:      smtp.GetSMTPPort(),
		username:  smtp.GetSMTPUsername(),
		password:  smtp.GetSMTPPassword(),
		fromName:  smtp.GetSMTPFromName(),
		fromEmail: smtp.GetSMTPFromAddress(),
		to:        leads.GetLeadsEmailTo(),
		renderPDF: pdf.GenerateEstimatePDF,
		log:       log,
	}
}

// Name identifies the sink in logs.
func (s *Sender) Name() string { return "email" }

// Deliver sends one message per lead.
func (s *Sender) Deliver(ctx context.Context, lead domain.Lead) error {
	msg, err := s.buildMessage(lead)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *Sender) buildMessage(lead domain.Lead) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(Subject(lead))
	msg.SetBodyString(gomail.TypeTextPlain, Body(lead))

	// The estimate PDF is best effort; the text body already carries every field.
	if s.renderPDF != nil {
		doc, err := s.renderPDF(lead)
		if err != nil {
			s.log.Warn("estimate pdf not attached", "lead_id", lead.ID.String(), "error", err)
			return msg, nil
		}
		if err := msg.AttachReader(pdf.EstimateFileName(lead), bytes.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("smtp attach: %w", err)
		}
	}
	return msg, nil
}

// Subject is the email subject for a lead.
func Subject(lead domain.Lead) string {
	return fmt.Sprintf(subjectLeadFmt, lead.Material, lead.Estimate)
}

// Body renders the lead as labelled lines.
func Body(lead domain.Lead) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	line("Sursa", lead.Source)
	line("Tip lucrare", lead.WorkType)
	line("Material", lead.Material)
	line("Suprafata (m²)", domain.FormatArea(lead.AreaSquareMeters))
	if lead.WidthCentimeters != nil && lead.LengthLinearMeters != nil {
		line("Latime (cm)", domain.FormatArea(*lead.WidthCentimeters))
		line("Lungime (ml)", domain.FormatArea(*lead.LengthLinearMeters))
	}
	line("Estimare (RON)", fmt.Sprintf("%d", lead.Estimate))
	if lead.CallerPhone != "" {
		line("Telefon", phone.NormalizeE164(lead.CallerPhone))
	}
	line("Apel", strings.TrimPrefix(lead.Provider+" "+lead.CallID, " "))
	line("Transcriere", lead.Utterance)
	line("Observatii", lead.Note)
	return b.String()
}
