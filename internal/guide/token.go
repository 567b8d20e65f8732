package guide

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Direction names the navigation button that produced a token.
type Direction string

const (
	// Next moves forward.
	Next Direction = "next"
	// Prev moves backward.
	Prev Direction = "prev"
)

// ErrMalformedToken is returned by ParseToken for anything but "{next|prev}:{int}".
var ErrMalformedToken = errors.New("guide: malformed navigation token")

// Token is a decoded navigation request.
type Token struct {
	Direction Direction
	Target    int
}

// String encodes the token as carried in callback payloads.
func (t Token) String() string {
	return string(t.Direction) + ":" + strconv.Itoa(t.Target)
}

// ParseToken decodes "{direction}:{index}".
func ParseToken(raw string) (Token, error) {
	dir, idx, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || strings.Contains(idx, ":") {
		return Token{}, ErrMalformedToken
	}
	d := Direction(strings.ToLower(strings.TrimSpace(dir)))
	if d != Next && d != Prev {
		return Token{}, ErrMalformedToken
	}
	digits := strings.TrimSpace(idx)
	n, err := strconv.Atoi(digits)
	switch {
	case errors.Is(err, strconv.ErrRange):
		// Out-of-range targets saturate; SetStep clamps them into the guide.
		n = math.MaxInt
		if strings.HasPrefix(digits, "-") {
			n = math.MinInt
		}
	case err != nil:
		return Token{}, ErrMalformedToken
	}
	return Token{Direction: d, Target: n}, nil
}
