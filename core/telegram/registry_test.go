package telegram

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/guidebot/core/telegram/commands"
)

type fakeSetter struct {
	got  []tele.Command
	fail bool
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if f.fail {
		return errors.New("forbidden")
	}
	for _, o := range opts {
		if list, ok := o.([]tele.Command); ok {
			f.got = list
		}
	}
	return nil
}

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	for name, cmd := range map[string]commands.Command{
		"/start": {Handler: noop, Description: "Запуск бота"},
		"/help":  {Handler: noop, Description: "Справка", Aliases: []string{"h"}},
		"/stats": {Handler: noop, Description: "stats", AdminOnly: true, Hidden: true},
	} {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := reg.RegisterCommand("nostart", commands.Command{Handler: noop, Description: "x"}); !errors.Is(err, commands.ErrNoSlash) {
		t.Fatalf("no slash err = %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "dup"}); err == nil {
		t.Fatal("duplicate command should fail")
	}

	if len(reg.Commands()) != 3 {
		t.Fatalf("commands = %d", len(reg.Commands()))
	}
	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "help" || visible[1].Text != "start" {
		t.Fatalf("visible = %+v", visible)
	}
	if key, _, ok := reg.LookupCommand("/start@guide_bot extra"); !ok || key != "/start" {
		t.Fatalf("lookup with bot suffix = %q %v", key, ok)
	}
	if key, _, ok := reg.LookupCommand("/h"); !ok || key != "/help" {
		t.Fatalf("alias lookup = %q %v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("hello"); ok {
		t.Fatal("plain text must not match")
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("guide_open", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("guide_open", noop); err == nil {
		t.Fatal("duplicate key should fail")
	}
	if err := reg.RegisterCallback("", noop); err == nil {
		t.Fatal("empty key should fail")
	}
	if _, ok := reg.GetCallback("guide_open"); !ok {
		t.Fatal("callback not found")
	}
	if got := reg.ListCallbacks(); len(got) != 1 || got[0] != "guide_open" {
		t.Fatalf("callbacks = %v", got)
	}
	if reg.CallbackNotFound() == nil {
		t.Fatal("default not-found handler expected")
	}
}

func TestSetupCommands(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Запуск бота"})
	s := &fakeSetter{}
	if err := InitBotCommands(s, reg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(s.got) != 1 || s.got[0].Description != "Запуск бота" {
		t.Fatalf("published = %+v", s.got)
	}
	SetupCommands(&fakeSetter{fail: true}, reg)
}
