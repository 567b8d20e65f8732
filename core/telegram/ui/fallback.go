// Package ui connects feature services to the registry's fallback slots.
package ui

import (
	tg "github.com/m3rciful/guidebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FallbackProvider supplies handlers for updates no route claims. A method
// may return nil to keep the registry's current handler.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}

// InstallFallbacks copies p's non-nil handlers into reg.
func InstallFallbacks(reg *tg.Registry, p FallbackProvider) {
	if reg == nil || p == nil {
		return
	}
	if h := p.UnknownText(); h != nil {
		reg.SetTextFallback(h)
	}
	if h := p.UnknownDocument(); h != nil {
		reg.SetDocumentFallback(h)
	}
	reg.SetCallbackNotFound(p.UnknownCallback())
}
