package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"signaldesk/src/model"
)

// ErrNotConfigured is returned by a provider whose API key is missing.
var ErrNotConfigured = errors.New("provider not configured")

var errNoObject = errors.New("no JSON object found in response")

// Provider asks one AI service for a directional opinion on an instrument.
type Provider interface {
	Name() model.ProviderName
	Query(ctx context.Context, instrument, prompt string) (model.ProviderOpinion, error)
}

// ParseError means the provider answered but the text held no usable JSON object.
type ParseError struct {
	Provider model.ProviderName
	Text     string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	greedyObject = regexp.MustCompile(`(?s)\{.*\}`)
	lazyObject   = regexp.MustCompile(`(?s)\{.*?\}`)
)

// ParseOpinion reads action, confidence and analysis from provider text. The
// object may be wrapped in prose or code fences; the first brace-delimited
// substring is used when the whole text is not JSON. Fields with unexpected
// types are dropped instead of failing the parse.
func ParseOpinion(provider model.ProviderName, text string) (model.ProviderOpinion, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return model.EmptyOpinion(provider), &ParseError{Provider: provider, Text: truncate(text, maxErrorBodyLen), Err: err}
	}

	opinion := model.EmptyOpinion(provider)
	opinion.Action = stringField(fields, "action")
	opinion.Confidence = numberField(fields, "confidence")
	opinion.Analysis = stringField(fields, "analysis")
	return opinion, nil
}

func decodeObject(text string) (map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if fields, err := unmarshalObject(trimmed); err == nil {
		return fields, nil
	}

	var lastErr error = errNoObject
	for _, re := range []*regexp.Regexp{greedyObject, lazyObject} {
		candidate := re.FindString(trimmed)
		if candidate == "" {
			continue
		}
		fields, err := unmarshalObject(candidate)
		if err == nil {
			return fields, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func unmarshalObject(s string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNoObject
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// numberField accepts 85, 85.5, "85" and "85%". NaN and infinities count as missing.
func numberField(fields map[string]json.RawMessage, key string) *float64 {
	raw, ok := fields[key]
	if !ok {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return finite(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
