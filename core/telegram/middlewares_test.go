package telegram

import (
	"testing"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	"github.com/m3rciful/guidebot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

func middlewareNames(mws []Middleware) []string {
	names := make([]string, 0, len(mws))
	for _, mw := range mws {
		names = append(names, mw.Name)
	}
	return names
}

func TestDefaultMiddlewaresOrder(t *testing.T) {
	cfg := &coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 300}}
	got := middlewareNames(DefaultMiddlewares(cfg, MiddlewareOptions{Sessions: state.NewMemoryStore()}))
	want := []string{"recover", "rate_limit", "logger", "metrics", "session"}
	if len(got) != len(want) {
		t.Fatalf("middlewares = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("middlewares = %v, want %v", got, want)
		}
	}
}

func TestDefaultMiddlewaresWithoutRateLimit(t *testing.T) {
	got := middlewareNames(DefaultMiddlewares(&coreconfig.Config{}, MiddlewareOptions{}))
	if len(got) != 3 || got[1] != "logger" {
		t.Fatalf("middlewares = %v", got)
	}
}

type callbackContext struct {
	tele.Context
	update   tele.Update
	store    map[string]any
	answered int
}

func (c *callbackContext) Update() tele.Update           { return c.update }
func (c *callbackContext) Callback() *tele.Callback      { return c.update.Callback }
func (c *callbackContext) Sender() *tele.User            { return c.update.Callback.Sender }
func (c *callbackContext) Chat() *tele.Chat              { return &tele.Chat{ID: c.Sender().ID} }
func (c *callbackContext) Get(key string) interface{}    { return c.store[key] }
func (c *callbackContext) Set(key string, v interface{}) { c.store[key] = v }
func (c *callbackContext) Respond(...*tele.CallbackResponse) error {
	c.answered++
	return nil
}

func TestDefaultRateLimitAnswersCallbacks(t *testing.T) {
	cfg := &coreconfig.Config{RateLimit: coreconfig.RateLimitConfig{IntervalMS: 300}}
	var limiter Middleware
	for _, mw := range DefaultMiddlewares(cfg, MiddlewareOptions{}) {
		if mw.Name == "rate_limit" {
			limiter = mw
		}
	}
	if limiter.Use == nil {
		t.Fatal("rate_limit middleware missing")
	}
	h := limiter.Use(func(c tele.Context) error { return c.Respond() })

	user := &tele.User{ID: 4}
	tap := func(id string) *callbackContext {
		return &callbackContext{
			update: tele.Update{Callback: &tele.Callback{ID: id, Sender: user, Data: "\fguide_nav|next:1"}},
			store:  map[string]any{},
		}
	}
	first, second := tap("a"), tap("b")
	_ = h(first)
	_ = h(second)
	if first.answered != 1 || second.answered != 1 {
		t.Fatalf("answered first=%d second=%d", first.answered, second.answered)
	}
}
