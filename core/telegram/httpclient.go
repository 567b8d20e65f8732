package telegram

import (
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/netutil"
)

const (
	clientTimeout    = 30 * time.Second
	responseHeadroom = 5 * time.Second
	retryAttempts    = 4
	retryBackoff     = 2 * time.Second
)

// BuildHTTPClient returns the client telebot uses for Bot API calls. The
// timeout always exceeds pollTimeout so getUpdates can hold the connection.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: max(clientTimeout, pollTimeout+responseHeadroom),
		Transport: &retryTransport{
			next:     newBaseTransport(),
			attempts: retryAttempts,
			backoff:  retryBackoff,
		},
	}
}

func newBaseTransport() *http.Transport {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// retryTransport repeats requests that failed before Telegram answered.
// attempts counts the first try.
type retryTransport struct {
	next     http.RoundTripper
	attempts int
	backoff  time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	cur := req
	for attempt := 1; ; attempt++ {
		resp, err := next.RoundTrip(cur)
		if err == nil || attempt >= t.attempts || !netutil.ShouldRetry(err) || !replayable(req) {
			return resp, err
		}

		delay := t.backoff * time.Duration(attempt)
		logger.Debug(req.Context(), "tg", "http.retry",
			slog.String("endpoint", endpointName(req)),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("cause", err.Error()),
		)
		if err := sleepCtx(req, delay); err != nil {
			return nil, err
		}
		if cur, err = rewind(req); err != nil {
			return nil, err
		}
	}
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// rewind clones req with a fresh body for another attempt.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func sleepCtx(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-t.C:
		return nil
	}
}

// endpointName is the Bot API method, keeping the token out of logs.
func endpointName(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return path.Base(req.URL.Path)
}
