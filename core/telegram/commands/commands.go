// Package commands describes slash commands apart from how they are routed.
package commands

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

var (
	ErrNoHandler     = errors.New("command has no handler")
	ErrNoDescription = errors.New("command has no description")
	ErrNoSlash       = errors.New("command name must start with '/'")
)

// Command is a slash command and its menu metadata. Aliases match with or
// without a leading slash.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Validate reports whether c may be registered under name.
func (c Command) Validate(name string) error {
	switch {
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		return ErrNoSlash
	case c.Handler == nil:
		return ErrNoHandler
	case strings.TrimSpace(c.Description) == "":
		return ErrNoDescription
	}
	return nil
}

// Published reports whether c belongs in the client's command menu.
func (c Command) Published() bool {
	return !c.Hidden && !c.AdminOnly
}

// HasAlias reports whether name, with its leading slash, is one of c's aliases.
func (c Command) HasAlias(name string) bool {
	bare := strings.TrimPrefix(name, "/")
	for _, a := range c.Aliases {
		if strings.TrimPrefix(a, "/") == bare {
			return true
		}
	}
	return false
}

// Normalize strips arguments and a "@botname" suffix and adds the leading
// slash: "/start@guide_bot x" and "start" both become "/start".
func Normalize(text string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	name, _, _ = strings.Cut(name, "@")
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}
