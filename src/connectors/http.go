package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
	maxErrorBodyLen        = 512
)

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d. body: %s", e.Provider, e.Code, e.Body)
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		// the per-provider deadline is final
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

func newRestyClient(baseURL, fallbackURL string, timeout time.Duration, retries int) *resty.Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = fallbackURL
		logger.Debugf("No base URL provided, using default: %s", baseURL)
	}
	if retries < 0 {
		retries = 0
	}

	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(retries).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)
}

// checkResponse turns transport errors and non-2xx replies into errors.
func checkResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: do request: %w", provider, err)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}
		return &StatusError{Provider: provider, Code: resp.StatusCode(), Body: body}
	}
	return nil
}
