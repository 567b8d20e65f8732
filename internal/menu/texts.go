package menu

import (
	"fmt"
	"strings"

	"github.com/m3rciful/guidebot/core/buildinfo"
	"github.com/m3rciful/guidebot/core/telegram/sender"
	"github.com/m3rciful/guidebot/internal/events"
)

// Callback unique keys carried by inline buttons.
const (
	CallbackTest      = "test"
	CallbackGuideOpen = "guide_open"
	CallbackGuideFast = "guide_fast"
	CallbackGuideNav  = "guide_nav"
	CallbackGuideMenu = "guide_menu"
	CallbackEvents    = "events"
)

const (
	textMainMenu     = "Главное меню. Выбирай действие:"
	textPreparing    = "Готовлю главное меню…"
	textHelp         = "Команды:\n/start — главное меню\n/help — эта справка"
	textUnknown      = "Не понимаю сообщение. Нажми /start, чтобы открыть главное меню."
	textEventsEmpty  = "Пока здесь пусто — команда уже подбирает самые интересные события. Как только появятся ближайшие мероприятия, бот первым сообщит ✨"
	defaultFirstName = "друг"

	btnTest      = "Пройти тестирование"
	btnGuide     = "Инструкция (по шагам)"
	btnFast      = "Уже зарегистрирован(а)"
	btnEvents    = "Ближайшие анонсы и мероприятия"
	btnPrev      = "⬅️ Назад"
	btnNext      = "Далее ➡️"
	btnMainMenu  = "Главное меню"
	btnOpenEvent = "Открыть: "
)

func greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = defaultFirstName
	}
	return fmt.Sprintf("Привет, %s! Это бот для тестирования.", name)
}

func testInstructions(link string) string {
	return "Тестирование проходит на компьютере.\n\n" +
		"1) Перейти на сайт: " + link + "\n" +
		"2) Зарегистрироваться (или войти), указать e‑mail.\n" +
		"3) Открыть раздел «Оценка компетенций» и нажать «Пройти тестирование».\n\n" +
		"Нужна пошаговая инструкция? Нажми «" + btnGuide + "»."
}

func statsText(sessions int, snap sender.Stats) string {
	return fmt.Sprintf("Сессий: %d\nОтправлено: %d\nОшибок отправки: %d\nВ очереди: %d\nВерсия: %s",
		sessions, snap.Sent, snap.Failed, snap.Pending, buildinfo.Get())
}

func eventsText(list []events.Event) string {
	var b strings.Builder
	b.WriteString("Ближайшие мероприятия:")
	for i, e := range list {
		b.WriteString("\n")
		b.WriteString(e.Line(i + 1))
	}
	return b.String()
}
