package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// HeaderTwilioSignature carries the request signature on Twilio webhooks.
const HeaderTwilioSignature = "X-Twilio-Signature"

// TwilioSignature computes base64(HMAC-SHA1(authToken, url + sorted key/value pairs)).
func TwilioSignature(authToken, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		for _, v := range form[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidTwilioSignature reports whether signature matches the request.
func ValidTwilioSignature(authToken, fullURL string, form url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	expected := TwilioSignature(authToken, fullURL, form)
	return hmac.Equal([]byte(expected), []byte(signature))
}
