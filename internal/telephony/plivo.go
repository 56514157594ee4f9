package telephony

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// ProviderPlivo is the path segment for Plivo webhooks.
const ProviderPlivo = "plivo"

type plivoResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type plivoSpeak struct {
	XMLName  xml.Name `xml:"Speak"`
	Language string   `xml:"language,attr,omitempty"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type plivoGetInput struct {
	XMLName          xml.Name    `xml:"GetInput"`
	Action           string      `xml:"action,attr"`
	Method           string      `xml:"method,attr"`
	InputType        string      `xml:"inputType,attr"`
	Language         string      `xml:"language,attr,omitempty"`
	SpeechEndTimeout string      `xml:"speechEndTimeout,attr"`
	Hints            string      `xml:"hints,attr,omitempty"`
	Speak            *plivoSpeak `xml:",omitempty"`
}

type plivoRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr"`
	URL     string   `xml:",chardata"`
}

type plivoNumber struct {
	XMLName xml.Name `xml:"Number"`
	Number  string   `xml:",chardata"`
}

type plivoDial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  plivoNumber
}

type plivoHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Plivo renders Plivo XML.
type Plivo struct {
	speech Speech
}

// NewPlivo creates the Plivo XML dialect.
func NewPlivo(speech Speech) *Plivo {
	return &Plivo{speech: speech}
}

func (p *Plivo) Name() string        { return ProviderPlivo }
func (p *Plivo) ContentType() string { return "application/xml; charset=utf-8" }

func (p *Plivo) SpeechResult(form url.Values) string { return strings.TrimSpace(form.Get("Speech")) }
func (p *Plivo) CallID(form url.Values) string       { return form.Get("CallUUID") }
func (p *Plivo) Caller(form url.Values) string       { return form.Get("From") }

func (p *Plivo) speak(text string) *plivoSpeak {
	return &plivoSpeak{Language: p.speech.Language, Voice: p.speech.Voice, Text: text}
}

// Render marshals s as a Plivo XML document.
func (p *Plivo) Render(s Script) ([]byte, error) {
	resp := plivoResponse{Verbs: make([]any, 0, len(s))}
	for _, v := range s {
		switch verb := v.(type) {
		case Say:
			resp.Verbs = append(resp.Verbs, p.speak(verb.Text))
		case Gather:
			g := &plivoGetInput{
				Action:           verb.Action,
				Method:           "POST",
				InputType:        "speech",
				Language:         p.speech.Language,
				SpeechEndTimeout: "auto",
				Hints:            strings.Join(verb.Hints, ","),
			}
			if verb.Prompt != "" {
				g.Speak = p.speak(verb.Prompt)
			}
			resp.Verbs = append(resp.Verbs, g)
		case Redirect:
			resp.Verbs = append(resp.Verbs, &plivoRedirect{Method: "POST", URL: verb.URL})
		case Dial:
			resp.Verbs = append(resp.Verbs, &plivoDial{Number: plivoNumber{Number: verb.Number}})
		case Hangup:
			resp.Verbs = append(resp.Verbs, &plivoHangup{})
		default:
			return nil, fmt.Errorf("plivo xml: unsupported verb %T", v)
		}
	}
	return marshalDocument(resp)
}

var _ Dialect = (*Plivo)(nil)
