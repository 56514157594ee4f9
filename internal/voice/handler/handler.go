package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"marmurfit_voicebot/internal/events"
	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/internal/telephony"
	"marmurfit_voicebot/internal/voice/service"
	"marmurfit_voicebot/platform/apperr"
	"marmurfit_voicebot/platform/httpkit"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/phone"
)

const contextDialectKey = "telephonyDialect"

// LeadPublisher hands a captured lead off for delivery.
type LeadPublisher interface {
	Publish(ctx context.Context, lead domain.Lead) error
}

// Handler serves the provider webhooks of the call flow.
type Handler struct {
	flow      *service.Flow
	dialects  *telephony.Registry
	publisher LeadPublisher
	bus       events.Bus
	authToken string
	baseURL   string
	log       *logger.Logger
}

// Config carries the values the handler needs from VoiceConfig.
type Config struct {
	TwilioAuthToken string
	PublicBaseURL   string
}

// New creates a voice handler. bus may be nil, in which case WhatsApp
// summaries are not requested.
func New(flow *service.Flow, dialects *telephony.Registry, publisher LeadPublisher, bus events.Bus, cfg Config, log *logger.Logger) *Handler {
	return &Handler{
		flow:      flow,
		dialects:  dialects,
		publisher: publisher,
		bus:       bus,
		authToken: cfg.TwilioAuthToken,
		baseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		log:       log,
	}
}

// ResolveProvider loads the dialect for :provider, parses the posted form
// and, for Twilio with an auth token configured, checks the signature.
func (h *Handler) ResolveProvider() gin.HandlerFunc {
	return func(c *gin.Context) {
		dialect, err := h.dialects.Lookup(c.Param("provider"))
		if err != nil {
			httpkit.HandleError(c, err)
			c.Abort()
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			httpkit.HandleError(c, apperr.Wrap(apperr.KindBadRequest, "invalid form body", err))
			c.Abort()
			return
		}

		if dialect.Name() == telephony.ProviderTwilio && h.authToken != "" {
			signature := c.GetHeader(telephony.HeaderTwilioSignature)
			if !telephony.ValidTwilioSignature(h.authToken, h.requestURL(c), c.Request.PostForm, signature) {
				h.requestLog(c).Warn("rejected unsigned telephony webhook", "provider", dialect.Name(), "path", c.Request.URL.Path)
				httpkit.HandleError(c, apperr.Unauthorized("invalid webhook signature"))
				c.Abort()
				return
			}
		}

		callID := dialect.CallID(c.Request.PostForm)
		ctx := context.WithValue(c.Request.Context(), logger.CallIDKey, callID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextDialectKey, dialect)
		c.Next()
	}
}

// Greeting answers an incoming call.
// POST /voice/:provider
func (h *Handler) Greeting(c *gin.Context) {
	dialect := mustDialect(c)
	form := c.Request.PostForm
	h.requestLog(c).CallEvent("greeting", dialect.Name(), dialect.CallID(form),
		"caller", phone.Mask(dialect.Caller(form)))

	h.render(c, dialect, h.flow.Greeting(dialect.Name()))
}

// Collect interprets what the caller said.
// POST /voice/:provider/collect?attempt=N
func (h *Handler) Collect(c *gin.Context) {
	dialect := mustDialect(c)
	form := c.Request.PostForm
	ctx := c.Request.Context()
	log := h.requestLog(c)

	attempt, err := strconv.Atoi(c.Query(service.ParamAttempt))
	if err != nil || attempt < 1 {
		attempt = 1
	}

	call := service.Call{
		Provider: dialect.Name(),
		CallID:   dialect.CallID(form),
		Caller:   dialect.Caller(form),
	}
	utterance := dialect.SpeechResult(form)
	out := h.flow.Collect(call, attempt, utterance)

	attrs := []any{"attempt", attempt, "heard", utterance != "", "missing", string(out.Result.Missing())}
	if out.Result.Material != nil {
		attrs = append(attrs, "material", out.Result.Material.Name)
	}
	if out.Result.Estimate != nil {
		attrs = append(attrs, "estimate_ron", *out.Result.Estimate)
	}
	log.CallEvent("collect", call.Provider, call.CallID, attrs...)

	if out.Lead != nil {
		if err := h.publisher.Publish(ctx, *out.Lead); err != nil {
			log.Error("failed to hand off lead", "lead_id", out.Lead.ID.String(), "call_id", call.CallID, "error", err)
		} else {
			log.CallEvent("lead_captured", call.Provider, call.CallID, "lead_id", out.Lead.ID.String())
		}
	}
	if out.Fallback {
		log.CallEvent("fallback", call.Provider, call.CallID, "attempt", attempt, "handoff", h.flow.HasHandoff())
	}

	h.render(c, dialect, out.Script)
}

// Final closes the call after the yes/no question.
// POST /voice/:provider/final
func (h *Handler) Final(c *gin.Context) {
	dialect := mustDialect(c)
	form := c.Request.PostForm
	ctx := c.Request.Context()
	log := h.requestLog(c)

	out := h.flow.Final(dialect.SpeechResult(form), c.Request.URL.Query())
	log.CallEvent("final", dialect.Name(), dialect.CallID(form), "summary_requested", out.Accept)

	if out.Accept && out.Summary != "" && h.bus != nil {
		h.bus.Publish(ctx, events.SummaryRequested{
			BaseEvent:   events.NewBaseEvent(),
			Provider:    dialect.Name(),
			CallID:      dialect.CallID(form),
			CallerPhone: phone.NormalizeE164(dialect.Caller(form)),
			Summary:     out.Summary,
		})
	}

	h.render(c, dialect, out.Script)
}

func (h *Handler) render(c *gin.Context, dialect telephony.Dialect, script telephony.Script) {
	body, err := dialect.Render(script)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to render call script", err))
		return
	}
	c.Data(http.StatusOK, dialect.ContentType(), body)
}

// requestURL rebuilds the URL the provider called, which is what Twilio signs.
func (h *Handler) requestURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL + c.Request.URL.RequestURI()
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// requestLog tags logs with the request ID only; CallEvent adds the call ID itself.
func (h *Handler) requestLog(c *gin.Context) *logger.Logger {
	if id := c.GetString(httpkit.ContextRequestIDKey); id != "" {
		return h.log.WithRequestID(id)
	}
	return h.log
}

func mustDialect(c *gin.Context) telephony.Dialect {
	return c.MustGet(contextDialectKey).(telephony.Dialect)
}
