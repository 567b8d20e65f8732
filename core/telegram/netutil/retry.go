// Package netutil classifies Bot API failures for retry decisions.
package netutil

import (
	"errors"
	"net"
	"time"

	tele "gopkg.in/telebot.v4"
)

// maxFloodWait caps a single flood-control pause.
const maxFloodWait = 30 * time.Second

// ShouldRetry reports whether err is transient: flood control, a failed
// dial or a timeout. Telegram API rejections are final.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if RetryAfter(err) > 0 {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// RetryAfter is the pause a flood error asks for, capped at maxFloodWait.
// Other errors yield 0.
func RetryAfter(err error) time.Duration {
	secs, ok := floodSeconds(err)
	switch {
	case !ok:
		return 0
	case secs <= 0:
		return time.Second
	}
	return min(time.Duration(secs)*time.Second, maxFloodWait)
}

func floodSeconds(err error) (int, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return flood.RetryAfter, true
	}
	var floodPtr *tele.FloodError
	if errors.As(err, &floodPtr) && floodPtr != nil {
		return floodPtr.RetryAfter, true
	}
	return 0, false
}
