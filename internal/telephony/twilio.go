package telephony

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// ProviderTwilio is the path segment for Twilio webhooks.
const ProviderTwilio = "twilio"

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr,omitempty"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name  `xml:"Gather"`
	Input         string    `xml:"input,attr"`
	Action        string    `xml:"action,attr"`
	Method        string    `xml:"method,attr"`
	Language      string    `xml:"language,attr,omitempty"`
	SpeechTimeout string    `xml:"speechTimeout,attr"`
	Hints         string    `xml:"hints,attr,omitempty"`
	Say           *twimlSay `xml:",omitempty"`
}

type twimlRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr"`
	URL     string   `xml:",chardata"`
}

type twimlDial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Twilio renders TwiML.
type Twilio struct {
	speech Speech
}

// NewTwilio creates the TwiML dialect.
func NewTwilio(speech Speech) *Twilio {
	return &Twilio{speech: speech}
}

func (t *Twilio) Name() string        { return ProviderTwilio }
func (t *Twilio) ContentType() string { return "application/xml; charset=utf-8" }

func (t *Twilio) SpeechResult(form url.Values) string { return strings.TrimSpace(form.Get("SpeechResult")) }
func (t *Twilio) CallID(form url.Values) string       { return form.Get("CallSid") }
func (t *Twilio) Caller(form url.Values) string       { return form.Get("From") }

func (t *Twilio) say(text string) *twimlSay {
	return &twimlSay{Language: t.speech.Language, Voice: t.speech.Voice, Text: text}
}

// Render marshals s as a TwiML document.
func (t *Twilio) Render(s Script) ([]byte, error) {
	resp := twimlResponse{Verbs: make([]any, 0, len(s))}
	for _, v := range s {
		switch verb := v.(type) {
		case Say:
			resp.Verbs = append(resp.Verbs, t.say(verb.Text))
		case Gather:
			g := &twimlGather{
				Input:         "speech",
				Action:        verb.Action,
				Method:        "POST",
				Language:      t.speech.Language,
				SpeechTimeout: "auto",
				Hints:         strings.Join(verb.Hints, ","),
			}
			if verb.Prompt != "" {
				g.Say = t.say(verb.Prompt)
			}
			resp.Verbs = append(resp.Verbs, g)
		case Redirect:
			resp.Verbs = append(resp.Verbs, &twimlRedirect{Method: "POST", URL: verb.URL})
		case Dial:
			resp.Verbs = append(resp.Verbs, &twimlDial{Number: verb.Number})
		case Hangup:
			resp.Verbs = append(resp.Verbs, &twimlHangup{})
		default:
			return nil, fmt.Errorf("twiml: unsupported verb %T", v)
		}
	}
	return marshalDocument(resp)
}

func marshalDocument(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal call script: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

var _ Dialect = (*Twilio)(nil)
