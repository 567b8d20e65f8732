// Package events provides the upcoming events list shown from the main menu.
package events

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTitle is used for events stored without a title.
const DefaultTitle = "Событие"

// Event is one announcement. Date is free-form display text.
type Event struct {
	Title string `db:"title"`
	Date  string `db:"starts_at"`
	Link  string `db:"link"`
}

// New builds an Event with trimmed fields and the default title applied.
func New(title, date, link string) Event {
	e := Event{
		Title: strings.TrimSpace(title),
		Date:  strings.TrimSpace(date),
		Link:  strings.TrimSpace(link),
	}
	if e.Title == "" {
		e.Title = DefaultTitle
	}
	return e
}

// Line renders the event as a numbered list entry, n starting at 1.
func (e Event) Line(n int) string {
	line := fmt.Sprintf("%d) %s", n, e.Title)
	if e.Date != "" {
		line += " — " + e.Date
	}
	return line
}

// Catalog lists the events to announce, in display order.
type Catalog interface {
	List(ctx context.Context) ([]Event, error)
}

// StaticCatalog serves a fixed list, typically from the content file.
type StaticCatalog []Event

// List returns a copy of the list.
func (s StaticCatalog) List(context.Context) ([]Event, error) {
	return append([]Event(nil), s...), nil
}
