package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/goblog/internal/common"
)

// Response is a successful reply exactly as received.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unwraps {code, message, data} into v, or decodes the whole body
// when it is not an envelope. A null or missing data leaves v unchanged, so
// callers may pre-fill v with what they sent.
func (r *Response) Decode(v any) error {
	payload, ok := r.payload()
	if !ok {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return &common.RequestError{Kind: common.KindApplication, Status: r.Status, Message: "invalid response", Err: err}
	}
	return nil
}

// Message is the envelope message, if any.
func (r *Response) Message() string {
	if env, ok := asEnvelope(r.Body); ok {
		return env.Message
	}
	return ""
}

func (r *Response) payload() ([]byte, bool) {
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return nil, false
	}
	if env, ok := asEnvelope(body); ok {
		data := bytes.TrimSpace(env.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return nil, false
		}
		return data, true
	}
	return body, true
}

func asEnvelope(body []byte) (envelope, bool) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return envelope{}, false
	}
	_, hasCode := keys["code"]
	_, hasMessage := keys["message"]
	_, hasData := keys["data"]
	if !hasData && !(hasCode && hasMessage) {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

const maxPlainMessage = 200

// serverMessage pulls a human-readable message out of an error body:
// JSON "message" or "error", else a short plain-text body, else the generic
// failure string.
func serverMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	var fields struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		if fields.Message != "" {
			return fields.Message
		}
		if fields.Error != "" {
			return fields.Error
		}
		return common.GenericFailureMessage
	}
	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= maxPlainMessage && !strings.HasPrefix(text, "<") {
		return text
	}
	return common.GenericFailureMessage
}
