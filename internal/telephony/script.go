// Package telephony renders vendor-neutral call scripts into the XML dialect a
// telephony provider expects, and reads the fields its webhooks post back.
package telephony

import "net/url"

// Verb is one instruction in a call script.
type Verb interface {
	isVerb()
}

// Say speaks text to the caller.
type Say struct {
	Text string
}

// Gather speaks Prompt and posts the caller's speech to Action.
type Gather struct {
	Action string
	Prompt string
	Hints  []string
}

// Redirect continues the call at URL.
type Redirect struct {
	URL string
}

// Dial bridges the caller to Number.
type Dial struct {
	Number string
}

// Hangup ends the call.
type Hangup struct{}

func (Say) isVerb()      {}
func (Gather) isVerb()   {}
func (Redirect) isVerb() {}
func (Dial) isVerb()     {}
func (Hangup) isVerb()   {}

// Script is an ordered list of verbs returned for one webhook.
type Script []Verb

// Speech holds voice settings shared by every Say and Gather prompt.
type Speech struct {
	Language string
	Voice    string
}

// Dialect is one provider's markup and webhook field naming.
type Dialect interface {
	Name() string
	ContentType() string
	Render(s Script) ([]byte, error)
	SpeechResult(form url.Values) string
	CallID(form url.Values) string
	Caller(form url.Values) string
}
