package ui

import (
	"testing"

	tg "github.com/m3rciful/guidebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

type provider struct{ text tele.HandlerFunc }

func (p provider) UnknownText() tele.HandlerFunc     { return p.text }
func (p provider) UnknownDocument() tele.HandlerFunc { return nil }
func (p provider) UnknownCallback() tele.HandlerFunc { return nil }

func TestInstallFallbacksKeepsDefaults(t *testing.T) {
	reg := tg.NewRegistry()
	InstallFallbacks(reg, provider{text: func(tele.Context) error { return nil }})
	if reg.TextFallback() == nil {
		t.Fatal("text fallback not installed")
	}
	if reg.DocumentFallback() != nil {
		t.Fatal("nil document handler should leave the slot empty")
	}
	if reg.CallbackNotFound() == nil {
		t.Fatal("nil callback handler replaced the registry default")
	}
	InstallFallbacks(nil, provider{})
}
