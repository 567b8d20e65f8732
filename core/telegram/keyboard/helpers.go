// Package keyboard turns plain button descriptions into inline markup.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn is one inline button: a link when URL is set, otherwise a
// callback carrying Unique and Data.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
	URL    string
}

// Callback returns a callback button with an optional payload.
func Callback(text, unique string, data ...string) InlineBtn {
	b := InlineBtn{Text: text, Unique: unique}
	if len(data) > 0 {
		b.Data = data[0]
	}
	return b
}

// Link returns a URL button.
func Link(text, url string) InlineBtn {
	return InlineBtn{Text: text, URL: url}
}

func (b InlineBtn) inline() tele.InlineButton {
	if b.URL != "" {
		return tele.InlineButton{Text: b.Text, URL: b.URL}
	}
	return tele.InlineButton{Text: b.Text, Unique: b.Unique, Data: b.Data}
}

// InlineButtons stacks buttons one per row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	rows := make([][]InlineBtn, len(buttons))
	for i, b := range buttons {
		rows[i] = []InlineBtn{b}
	}
	return InlineButtonsRows(rows...)
}

// InlineButtonsRows lays buttons out row by row, skipping empty rows.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	kb := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		line := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			line = append(line, b.inline())
		}
		kb = append(kb, line)
	}
	return &tele.ReplyMarkup{InlineKeyboard: kb}
}
