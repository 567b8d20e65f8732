package router

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/commands"
)

type fakeContext struct {
	tele.Context
	update    tele.Update
	store     map[string]any
	responses []*tele.CallbackResponse
}

func newCallbackContext(data string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 10, Callback: &tele.Callback{ID: "cb", Data: data, Sender: &tele.User{ID: 5}}},
		store:  map[string]any{},
	}
}

func newTextContext(text string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 11, Message: &tele.Message{Text: text, Sender: &tele.User{ID: 5}, Chat: &tele.Chat{ID: 5}}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update        { return f.update }
func (f *fakeContext) Callback() *tele.Callback   { return f.update.Callback }
func (f *fakeContext) Sender() *tele.User         { return &tele.User{ID: 5} }
func (f *fakeContext) Chat() *tele.Chat           { return &tele.Chat{ID: 5, Type: tele.ChatPrivate} }
func (f *fakeContext) Get(key string) interface{} { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeContext) Text() string {
	if f.update.Message != nil {
		return f.update.Message.Text
	}
	return ""
}
func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	f.responses = append(f.responses, r)
	return nil
}

func TestCallbackRoutesByUniqueKey(t *testing.T) {
	reg := tg.NewRegistry()
	var gotPayload string
	_ = reg.RegisterCallback("guide_nav", func(c tele.Context) error {
		gotPayload = c.Callback().Data
		return nil
	})
	h := CallbackRoute(reg, CallbackOptions{}).Handler

	c := newCallbackContext("\fguide_nav|next:2")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if gotPayload != "\fguide_nav|next:2" {
		t.Fatalf("handler saw %q", gotPayload)
	}
	if len(c.responses) != 1 {
		t.Fatalf("known callbacks must be acknowledged once, got %d", len(c.responses))
	}
}

func TestCallbackNotFoundAnswersOnce(t *testing.T) {
	reg := tg.NewRegistry()
	h := CallbackRoute(reg, CallbackOptions{}).Handler
	c := newCallbackContext("\fretired_button")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(c.responses) != 1 || c.responses[0] == nil || c.responses[0].Text != "Неизвестное действие" {
		t.Fatalf("responses = %+v", c.responses)
	}
}

func TestTextRoutesDispatchCommandsAndFallback(t *testing.T) {
	reg := tg.NewRegistry()
	var helpCalls, fallbackCalls int
	_ = reg.RegisterCommand("/help", commands.Command{
		Description: "Справка",
		Aliases:     []string{"помощь"},
		Handler:     func(tele.Context) error { helpCalls++; return nil },
	})
	reg.SetTextFallback(func(tele.Context) error { fallbackCalls++; return nil })

	routes := TextRoutes(reg, TextOptions{})
	if len(routes) != 2 || routes[0].Endpoint != tele.OnText {
		t.Fatalf("routes = %+v", routes)
	}
	text := routes[0].Handler
	_ = text(newTextContext("/помощь"))
	_ = text(newTextContext("привет"))
	_ = text(newTextContext("help"))
	if helpCalls != 1 || fallbackCalls != 2 {
		t.Fatalf("help = %d fallback = %d", helpCalls, fallbackCalls)
	}
}

func TestCommandRoutesWrapAdminOnly(t *testing.T) {
	reg := tg.NewRegistry()
	var ran int
	_ = reg.RegisterCommand("/stats", commands.Command{
		Description: "stats",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { ran++; return nil },
	})
	var rejected int
	routes := CommandRoutes(reg, CommandRouteOptions{AdminID: 99, OnAdminReject: func(tele.Context) error { rejected++; return nil }})
	if len(routes) != 1 || routes[0].Endpoint != "/stats" {
		t.Fatalf("routes = %+v", routes)
	}
	_ = routes[0].Handler(newTextContext("/stats"))
	if ran != 0 || rejected != 1 {
		t.Fatalf("ran = %d rejected = %d", ran, rejected)
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "menu edit" }

func TestErrorCodeAndHandlerName(t *testing.T) {
	if got := errorCode(codedErr{}); got != "MENU_EDIT" {
		t.Fatalf("code = %q", got)
	}
	if got := errorCode(tele.ErrMessageNotModified); got != "TG_400" {
		t.Fatalf("api code = %q", got)
	}
	if got := errorCode(errors.New("x")); got != "ERRORSTRING" {
		t.Fatalf("fallback code = %q", got)
	}
	if handlerName("/Start") != "start" || handlerName("") != "unknown" {
		t.Fatal("handlerName")
	}
}
