package menu

import (
	"github.com/m3rciful/guidebot/core/telegram/keyboard"
	"github.com/m3rciful/guidebot/internal/events"
	"github.com/m3rciful/guidebot/internal/guide"

	tele "gopkg.in/telebot.v4"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		keyboard.Callback(btnTest, CallbackTest),
		keyboard.Callback(btnGuide, CallbackGuideOpen),
		keyboard.Callback(btnFast, CallbackGuideFast),
		keyboard.Callback(btnEvents, CallbackEvents),
	})
}

func guideKeyboard(nav guide.Nav) *tele.ReplyMarkup {
	var row []keyboard.InlineBtn
	if nav.ShowPrev {
		row = append(row, keyboard.Callback(btnPrev, CallbackGuideNav, guide.Token{Direction: guide.Prev, Target: nav.PrevTarget}.String()))
	}
	if nav.ShowNext {
		row = append(row, keyboard.Callback(btnNext, CallbackGuideNav, guide.Token{Direction: guide.Next, Target: nav.NextTarget}.String()))
	}
	return keyboard.InlineButtonsRows(row, []keyboard.InlineBtn{keyboard.Callback(btnMainMenu, CallbackGuideMenu)})
}

func eventsKeyboard(list []events.Event) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(list)+1)
	for _, e := range list {
		if e.Link == "" {
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{keyboard.Link(btnOpenEvent+e.Title, e.Link)})
	}
	rows = append(rows, []keyboard.InlineBtn{keyboard.Callback(btnMainMenu, CallbackGuideMenu)})
	return keyboard.InlineButtonsRows(rows...)
}
