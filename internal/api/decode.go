package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fragmede/authpanel/internal/render"
)

// decodeResponse reads the whole body and turns the response into a Result.
// A body that is not valid JSON is kept as text rather than treated as an error.
func decodeResponse(resp *http.Response) Result {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	payload := decodePayload(raw, resp.Header.Get("Content-Type"))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(resp.StatusCode, &Error{
			Status:  resp.StatusCode,
			Message: failureMessage(payload, resp),
		})
	}
	return Success(resp.StatusCode, payload)
}

func decodePayload(raw []byte, contentType string) any {
	if len(raw) == 0 {
		return nil
	}
	if v, ok := parseJSON(raw); ok {
		return v
	}
	text := string(raw)
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/html") {
		return render.HTMLToText(text, 0)
	}
	return text
}

// parseJSON decodes exactly one JSON value. Numbers stay json.Number so they
// print back unchanged.
func parseJSON(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

func failureMessage(payload any, resp *http.Response) string {
	switch v := payload.(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"]; ok && truthy(msg) {
			if s, ok := msg.(string); ok {
				return s
			}
			if data, err := json.Marshal(msg); err == nil {
				return string(data)
			}
			return fmt.Sprint(msg)
		}
	}
	return statusPhrase(resp)
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	}
	return true
}

// statusPhrase returns the reason phrase from the status line, falling back
// to the standard text for the code.
func statusPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
