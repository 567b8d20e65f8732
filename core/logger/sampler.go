package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

type ratio struct{ num, den uint64 }

// ratioSampler lets num out of every den calls through. A zero ratio
// lets everything through.
type ratioSampler struct {
	r atomic.Pointer[ratio]
	n atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

func (s *ratioSampler) Set(num, den int) {
	r := &ratio{}
	if num > 0 && den > 0 {
		r.num, r.den = uint64(min(num, den)), uint64(den)
	}
	s.r.Store(r)
	s.n.Store(0)
}

func (s *ratioSampler) Allow() bool {
	r := s.r.Load()
	if r == nil || r.den == 0 {
		return true
	}
	return (s.n.Add(1)-1)%r.den < r.num
}

// parseRatioSpec accepts "n/d" or "d" (meaning 1/d). Invalid or
// non-positive input yields 0/0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if numStr, denStr, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(numStr))
		den, err2 := strconv.Atoi(strings.TrimSpace(denStr))
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		return num, den
	}
	v, err := strconv.Atoi(spec)
	if err != nil || v <= 0 {
		return 0, 0
	}
	return 1, v
}
