// Package service decides what the caller hears at each step of the call.
// It is stateless: the attempt counter and the estimate awaiting
// confirmation travel in the callback URLs.
package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	estimateservice "marmurfit_voicebot/internal/estimate/service"
	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/internal/telephony"
	"marmurfit_voicebot/platform/phone"
	"marmurfit_voicebot/platform/sanitize"
	"marmurfit_voicebot/platform/textnorm"

	"github.com/google/uuid"
)

// Query parameters carried between webhooks.
const (
	ParamAttempt  = "attempt"
	ParamMaterial = "material"
	ParamArea     = "area"
	ParamEstimate = "estimate"
)

// Interpreter parses one utterance.
type Interpreter interface {
	Interpret(utterance string) estimateservice.Result
}

// Catalog is the slice of the knowledge base the prompts need.
type Catalog interface {
	Names() []string
	PriceFor(materialName string) (float64, bool)
}

// Options configures the flow.
type Options struct {
	// BaseURL prefixes callback URLs. Empty means root-relative URLs.
	BaseURL       string
	MaxReprompts  int
	HandoffNumber string
	SourceTag     string
	Now           func() time.Time
}

// Call identifies the webhook being answered.
type Call struct {
	Provider string
	CallID   string
	Caller   string
}

// CollectOutcome is what one collect turn produced.
type CollectOutcome struct {
	Script  telephony.Script
	Result  estimateservice.Result
	Lead    *domain.Lead
	Attempt int
	// Fallback is set when the caller ran out of attempts.
	Fallback bool
}

// FinalOutcome is what the confirmation turn produced.
type FinalOutcome struct {
	Script  telephony.Script
	Accept  bool
	Summary string
}

// Flow builds scripts for the greeting, collect and final steps.
type Flow struct {
	interpreter Interpreter
	catalog     Catalog
	opts        Options
}

// NewFlow creates a flow.
func NewFlow(interpreter Interpreter, catalog Catalog, opts Options) *Flow {
	if opts.MaxReprompts < 1 {
		opts.MaxReprompts = 1
	}
	if opts.SourceTag == "" {
		opts.SourceTag = "apel"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Flow{interpreter: interpreter, catalog: catalog, opts: opts}
}

// Greeting asks for material and measurement. Silence goes to the first
// collect step so it counts against MaxReprompts.
func (f *Flow) Greeting(provider string) telephony.Script {
	return telephony.Script{
		f.gather(f.collectURL(provider, 1), promptIntro),
		telephony.Redirect{URL: f.collectURL(provider, 1)},
	}
}

// Collect interprets one utterance and either confirms the estimate, asks
// for the missing piece, or gives up after MaxReprompts attempts.
func (f *Flow) Collect(call Call, attempt int, utterance string) CollectOutcome {
	if attempt < 1 {
		attempt = 1
	}
	res := f.interpreter.Interpret(utterance)
	out := CollectOutcome{Result: res, Attempt: attempt}

	if res.Complete() && res.Estimate != nil {
		lead := f.buildLead(call, res)
		out.Lead = &lead
		final := f.url(call.Provider, "/final", url.Values{
			ParamMaterial: {lead.Material},
			ParamArea:     {formatArea(lead.AreaSquareMeters)},
			ParamEstimate: {strconv.FormatInt(lead.Estimate, 10)},
		})
		out.Script = telephony.Script{
			f.gather(final, estimatePrompt(*res.Estimate)),
			telephony.Redirect{URL: final},
		}
		return out
	}

	if attempt >= f.opts.MaxReprompts {
		out.Fallback = true
		out.Script = f.fallback()
		return out
	}

	var prompt string
	switch {
	case res.Missing() == estimateservice.MissingMaterial:
		prompt = materialPrompt(f.catalog.Names())
	case res.Missing() == estimateservice.MissingMeasurement:
		prompt = promptMeasurement
	default:
		prompt = promptUnpriced
	}
	next := f.collectURL(call.Provider, attempt+1)
	out.Script = telephony.Script{
		f.gather(next, prompt),
		telephony.Redirect{URL: next},
	}
	return out
}

// Final thanks the caller and hangs up. When the caller accepted and the
// callback carried a known estimate, the summary text is returned.
func (f *Flow) Final(answer string, query url.Values) FinalOutcome {
	out := FinalOutcome{Accept: IsAffirmative(answer)}
	if out.Accept {
		out.Summary = f.summaryFromQuery(query)
	}

	thanks := promptThanks
	if out.Accept {
		thanks = promptThanksSummary
	}
	out.Script = telephony.Script{telephony.Say{Text: thanks}, telephony.Hangup{}}
	return out
}

// HasHandoff reports whether the fallback dials a human.
func (f *Flow) HasHandoff() bool {
	return f.opts.HandoffNumber != ""
}

// IsAffirmative reports whether a spoken answer means yes.
func IsAffirmative(answer string) bool {
	words := strings.FieldsFunc(textnorm.Fold(answer), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	yes := false
	for _, w := range words {
		switch w {
		case "nu":
			return false
		case "da", "sigur", "desigur", "ok", "okay", "bine", "trimite":
			yes = true
		}
	}
	return yes
}

func (f *Flow) summaryFromQuery(query url.Values) string {
	material := query.Get(ParamMaterial)
	if _, ok := f.catalog.PriceFor(material); !ok {
		return ""
	}
	area, err := strconv.ParseFloat(query.Get(ParamArea), 64)
	if err != nil || area <= 0 {
		return ""
	}
	estimate, err := strconv.ParseInt(query.Get(ParamEstimate), 10, 64)
	if err != nil || estimate <= 0 {
		return ""
	}
	return domain.Lead{Material: material, AreaSquareMeters: area, Estimate: estimate}.Summary()
}

// formatArea drops float noise such as 0.6000000000000001 from callback URLs.
func formatArea(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

func (f *Flow) fallback() telephony.Script {
	if f.opts.HandoffNumber != "" {
		return telephony.Script{
			telephony.Say{Text: promptHandoff},
			telephony.Dial{Number: f.opts.HandoffNumber},
		}
	}
	return telephony.Script{
		telephony.Say{Text: promptGoodbye},
		telephony.Hangup{},
	}
}

func (f *Flow) buildLead(call Call, res estimateservice.Result) domain.Lead {
	workType := domain.WorkTypeUnknown
	if res.Mode == estimateservice.ModeSill {
		workType = domain.WorkTypeSill
	}
	return domain.Lead{
		ID:                 uuid.New(),
		Source:             f.opts.SourceTag,
		WorkType:           workType,
		Material:           res.Material.Name,
		AreaSquareMeters:   *res.AreaSquareMeters,
		WidthCentimeters:   res.WidthCentimeters,
		LengthLinearMeters: res.LengthLinearMeters,
		Estimate:           *res.Estimate,
		Note:               domain.DefaultNote,
		Provider:           call.Provider,
		CallID:             call.CallID,
		CallerPhone:        phone.NormalizeE164(call.Caller),
		Utterance:          sanitize.Transcript(res.Utterance),
		CreatedAt:          f.opts.Now().UTC(),
	}
}

func (f *Flow) gather(action, prompt string) telephony.Gather {
	return telephony.Gather{Action: action, Prompt: prompt, Hints: f.catalog.Names()}
}

func (f *Flow) collectURL(provider string, attempt int) string {
	return f.url(provider, "/collect", url.Values{ParamAttempt: {strconv.Itoa(attempt)}})
}

func (f *Flow) url(provider, path string, query url.Values) string {
	u := f.opts.BaseURL + "/voice/" + url.PathEscape(provider) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
