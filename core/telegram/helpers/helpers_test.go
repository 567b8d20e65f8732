package helpers

import (
	"testing"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	store    map[string]any
	notified chan tele.ChatAction
}

func newFakeContext() *fakeContext {
	return &fakeContext{store: map[string]any{}, notified: make(chan tele.ChatAction, 1)}
}

func (f *fakeContext) Update() tele.Update        { return tele.Update{ID: 300} }
func (f *fakeContext) Sender() *tele.User         { return &tele.User{ID: 7} }
func (f *fakeContext) Chat() *tele.Chat           { return &tele.Chat{ID: 9} }
func (f *fakeContext) Get(key string) interface{} { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeContext) Notify(a tele.ChatAction) error {
	f.notified <- a
	return nil
}

func TestBuildContextCachesMeta(t *testing.T) {
	c := newFakeContext()
	ctx := BuildContext(c)
	m := logger.MetaFrom(ctx)
	if m.UpdateID != 300 || m.UserID != 7 || m.ChatID != 9 {
		t.Fatalf("meta = %+v", m)
	}
	if m.RID != logger.BuildRID(300, 9, 7) {
		t.Fatalf("rid = %q", m.RID)
	}
	if BuildContext(c) != ctx {
		t.Fatal("second call should reuse the cached context")
	}
}

func TestWithHandlerUpdatesCache(t *testing.T) {
	c := newFakeContext()
	WithHandler(c, "callback.guide_nav")
	if got := logger.MetaFrom(BuildContext(c)).Handler; got != "callback.guide_nav" {
		t.Fatalf("handler = %q", got)
	}
	if got := logger.MetaFrom(WithHandler(c, "")).Handler; got != "callback.guide_nav" {
		t.Fatalf("empty name replaced handler: %q", got)
	}
}

func TestTypingWithoutDispatcherRunsInline(t *testing.T) {
	SetDispatcher(nil)
	c := newFakeContext()
	if err := Typing(c); err != nil {
		t.Fatalf("typing: %v", err)
	}
	if a := <-c.notified; a != tele.Typing {
		t.Fatalf("action = %v", a)
	}
}

func TestTypingThroughDispatcher(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 1})
	SetDispatcher(d)
	defer SetDispatcher(nil)

	c := newFakeContext()
	if err := Typing(c); err != nil {
		t.Fatalf("typing: %v", err)
	}
	d.Close()
	if a := <-c.notified; a != tele.Typing {
		t.Fatalf("action = %v", a)
	}
	if st := d.Stats(); st.Sent != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestTypingFallsBackWhenQueueClosed(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 1})
	d.Close()
	SetDispatcher(d)
	defer SetDispatcher(nil)

	c := newFakeContext()
	if err := Typing(c); err != nil {
		t.Fatalf("typing: %v", err)
	}
	if a := <-c.notified; a != tele.Typing {
		t.Fatalf("action = %v", a)
	}
}
