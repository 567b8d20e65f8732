// Package guide implements the step-by-step onboarding guide: an immutable
// list of steps and per-user navigation over it.
package guide

import (
	"errors"
	"fmt"

	"github.com/m3rciful/guidebot/core/telegram/state"
)

// DefaultFastForwardIndex is the step shown to users who are already
// registered: the fourth step, where the test site is opened.
const DefaultFastForwardIndex = 3

// ErrEmptyGuide is returned when an engine is built without steps.
var ErrEmptyGuide = errors.New("guide: no steps defined")

// Step is one page of the guide.
type Step struct {
	Body  string
	Media Media
}

// Session reads and writes a single user's progress.
type Session interface {
	Get() state.UserProgress
	Put(state.UserProgress)
}

// Nav describes the navigation buttons of a rendered step.
// The main menu button is always present.
type Nav struct {
	ShowPrev   bool
	ShowNext   bool
	PrevTarget int
	NextTarget int
}

// Render is everything needed to display one step.
type Render struct {
	Index  int
	Total  int
	Header string
	Body   string
	Media  Media
	Nav    Nav
}

// Text joins header and body the way the step message is shown.
func (r Render) Text() string {
	return r.Header + "\n\n" + r.Body
}

// Engine navigates users through a fixed sequence of steps.
// It never returns errors for user input: bad indexes are clamped and bad
// tokens fall back to the stored step.
type Engine struct {
	steps       []Step
	fastForward int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFastForward overrides the step used by JumpToFastStep. Out-of-range
// values are clamped once the steps are known.
func WithFastForward(index int) Option {
	return func(e *Engine) {
		e.fastForward = index
	}
}

// NewEngine copies steps and builds an engine over them.
func NewEngine(steps []Step, opts ...Option) (*Engine, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyGuide
	}
	e := &Engine{
		steps:       append([]Step(nil), steps...),
		fastForward: DefaultFastForwardIndex,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.fastForward = e.clamp(e.fastForward)
	return e, nil
}

// MustEngine is NewEngine for statically known steps; it panics on error.
func MustEngine(steps []Step, opts ...Option) *Engine {
	e, err := NewEngine(steps, opts...)
	if err != nil {
		panic(fmt.Sprintf("guide: %v", err))
	}
	return e
}

// Len returns the number of steps.
func (e *Engine) Len() int {
	return len(e.steps)
}

// LastStep returns the index of the final step.
func (e *Engine) LastStep() int {
	return len(e.steps) - 1
}

// FastForwardIndex returns the step JumpToFastStep lands on.
func (e *Engine) FastForwardIndex() int {
	return e.fastForward
}

func (e *Engine) clamp(i int) int {
	return max(0, min(i, e.LastStep()))
}

// CurrentStep returns the stored step, 0 for new users. A stored value that
// no longer fits the guide is clamped on read.
func (e *Engine) CurrentStep(s Session) int {
	return e.clamp(s.Get().GuideStep)
}

// SetStep clamps requested into range, stores it and returns the stored value.
// It is the only place a step index is written.
func (e *Engine) SetStep(s Session, requested int) int {
	idx := e.clamp(requested)
	p := s.Get()
	p.GuideStep = idx
	s.Put(p)
	return idx
}

// JumpToFastStep moves the user to the fast-forward step.
func (e *Engine) JumpToFastStep(s Session) int {
	return e.SetStep(s, e.fastForward)
}

// ResolveToken applies a raw navigation token and reports whether it had to
// fall back. Malformed tokens resolve to the user's current step so the guide
// always stays navigable.
func (e *Engine) ResolveToken(s Session, raw string) (idx int, fellBack bool) {
	tok, err := ParseToken(raw)
	if err != nil {
		return e.SetStep(s, e.CurrentStep(s)), true
	}
	return e.SetStep(s, tok.Target), false
}

// NavButtons computes navigation for step i.
func (e *Engine) NavButtons(i int) Nav {
	i = e.clamp(i)
	return Nav{
		ShowPrev:   i > 0,
		ShowNext:   i < e.LastStep(),
		PrevTarget: i - 1,
		NextTarget: i + 1,
	}
}

// RenderStep builds the display instruction for step i without touching state.
func (e *Engine) RenderStep(i int) Render {
	i = e.clamp(i)
	step := e.steps[i]
	return Render{
		Index:  i,
		Total:  len(e.steps),
		Header: fmt.Sprintf("Шаг %d/%d", i+1, len(e.steps)),
		Body:   step.Body,
		Media:  step.Media,
		Nav:    e.NavButtons(i),
	}
}

// Open re-renders the current step without changing it.
func (e *Engine) Open(s Session) Render {
	return e.RenderStep(e.CurrentStep(s))
}

// FastForward jumps to the fast-forward step and renders it.
func (e *Engine) FastForward(s Session) Render {
	return e.RenderStep(e.JumpToFastStep(s))
}

// Navigate applies a token and renders the resulting step. fellBack is
// informational; the render is valid either way.
func (e *Engine) Navigate(s Session, raw string) (Render, bool) {
	idx, fellBack := e.ResolveToken(s, raw)
	return e.RenderStep(idx), fellBack
}
