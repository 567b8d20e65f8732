// Package menu wires the bot's commands and inline buttons to the guide
// engine, the events catalog and the main menu.
package menu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/guidebot/core/logger"
	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/commands"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	"github.com/m3rciful/guidebot/core/telegram/sender"
	"github.com/m3rciful/guidebot/core/telegram/state"
	"github.com/m3rciful/guidebot/core/telegram/ui"
	"github.com/m3rciful/guidebot/internal/events"
	"github.com/m3rciful/guidebot/internal/guide"

	tele "gopkg.in/telebot.v4"
)

// Options configures a Service.
type Options struct {
	Engine    *guide.Engine
	Store     state.Store
	Catalog   events.Catalog
	Messenger Messenger
	// TestLink is shown in the test instructions.
	TestLink string
	// EventsPhoto is sent above the events list when set.
	EventsPhoto string
	// Stats reports outbound counters for /stats; nil reports zeros.
	Stats func() sender.Stats
}

// Service holds the handlers of the main menu and the guide.
type Service struct {
	engine    *guide.Engine
	store     state.Store
	catalog   events.Catalog
	messenger Messenger
	testLink  string
	photo     string
	stats     func() sender.Stats
}

// New validates opts and builds a Service.
func New(opts Options) (*Service, error) {
	if opts.Engine == nil {
		return nil, errors.New("menu: guide engine is required")
	}
	if opts.Store == nil {
		return nil, errors.New("menu: progress store is required")
	}
	if opts.Messenger == nil {
		opts.Messenger = TelebotMessenger{}
	}
	if opts.Catalog == nil {
		opts.Catalog = events.StaticCatalog(nil)
	}
	return &Service{
		engine:    opts.Engine,
		store:     opts.Store,
		catalog:   opts.Catalog,
		messenger: opts.Messenger,
		testLink:  opts.TestLink,
		photo:     opts.EventsPhoto,
		stats:     opts.Stats,
	}, nil
}

// Register adds commands, callbacks and fallbacks to reg.
func (s *Service) Register(reg *tg.Registry) error {
	var errs []error
	for name, cmd := range map[string]commands.Command{
		"/start": {Handler: s.Start, Description: "Запуск бота", Aliases: []string{"меню"}},
		"/help":  {Handler: s.Help, Description: "Справка", Aliases: []string{"помощь"}},
		"/stats": {Handler: s.Stats, Description: "Статистика бота", AdminOnly: true, Hidden: true},
	} {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			errs = append(errs, err)
		}
	}

	callbacks := map[string]tele.HandlerFunc{
		CallbackTest:      s.Test,
		CallbackGuideOpen: s.GuideOpen,
		CallbackGuideFast: s.GuideFastForward,
		CallbackGuideNav:  s.GuideStep,
		CallbackGuideMenu: s.MainMenu,
		CallbackEvents:    s.Events,
	}
	for key, h := range callbacks {
		if err := reg.RegisterCallback(key, h); err != nil {
			errs = append(errs, err)
		}
	}
	ui.InstallFallbacks(reg, s)
	return errors.Join(errs...)
}

// Start greets the user and shows the main menu.
func (s *Service) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := s.messenger.Typing(c); err != nil {
		logger.Debug(ctx, "service.menu", "typing.failed", slog.String("err", err.Error()))
	}
	var firstName string
	if u := c.Sender(); u != nil {
		firstName = u.FirstName
	}
	if _, err := s.messenger.Text(c, greeting(firstName), nil); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}
	placeholder, err := s.messenger.Text(c, textPreparing, nil)
	if err != nil {
		return fmt.Errorf("send menu placeholder: %w", err)
	}
	return s.showMainMenu(c, placeholder)
}

// Help lists the public commands.
func (s *Service) Help(c tele.Context) error {
	_, err := s.messenger.Text(c, textHelp, nil)
	return err
}

// Stats reports session and delivery counters.
func (s *Service) Stats(c tele.Context) error {
	var snap sender.Stats
	if s.stats != nil {
		snap = s.stats()
	}
	_, err := s.messenger.Text(c, statsText(s.store.Len(), snap), nil)
	return err
}

// Test sends the test instructions with the main menu keyboard.
func (s *Service) Test(c tele.Context) error {
	id, err := s.messenger.Text(c, testInstructions(s.testLink), mainMenuKeyboard())
	if err != nil {
		return err
	}
	s.rememberMenu(c, id)
	return nil
}

// MainMenu sends a fresh main menu.
func (s *Service) MainMenu(c tele.Context) error {
	return s.showMainMenu(c, 0)
}

// showMainMenu edits the message editID into the main menu. When there is
// nothing to edit or the edit fails a new menu message is sent instead.
func (s *Service) showMainMenu(c tele.Context, editID int) error {
	ctx := tghelpers.BuildContext(c)
	markup := mainMenuKeyboard()
	if editID != 0 {
		err := s.messenger.EditText(c, editID, textMainMenu, markup)
		if err == nil {
			s.rememberMenu(c, editID)
			return nil
		}
		logger.Info(ctx, "service.menu", "menu.edit_failed",
			slog.Int("message_id", editID),
			slog.String("err", err.Error()),
		)
	}
	id, err := s.messenger.Text(c, textMainMenu, markup)
	if err != nil {
		return fmt.Errorf("send main menu: %w", err)
	}
	s.rememberMenu(c, id)
	return nil
}

// rememberMenu records id under the user's lock. Callers must not hold it.
func (s *Service) rememberMenu(c tele.Context, id int) {
	if id == 0 {
		return
	}
	_ = s.withSession(c, func(sess state.Accessor) error {
		sess.Update(func(p *state.UserProgress) {
			p.LastMenuMessageID = id
		})
		return nil
	})
}

// Events shows the upcoming events.
func (s *Service) Events(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if s.photo != "" {
		if err := s.messenger.Photo(c, s.photo); err != nil {
			logger.Warn(ctx, "service.events", "events.photo_failed", slog.String("err", err.Error()))
		}
	}
	list, err := s.catalog.List(ctx)
	if err != nil {
		logger.Error(ctx, "service.events", "events.list_failed", slog.String("err", err.Error()))
		list = nil
	}
	text, markup := textEventsEmpty, mainMenuKeyboard()
	if len(list) > 0 {
		text, markup = eventsText(list), eventsKeyboard(list)
	}
	id, err := s.messenger.Text(c, text, markup)
	if err != nil {
		return err
	}
	s.rememberMenu(c, id)
	return nil
}

// UnknownText answers free text with a hint.
func (s *Service) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		_, err := s.messenger.Text(c, textUnknown, nil)
		return err
	}
}

// UnknownDocument treats documents like unknown text.
func (s *Service) UnknownDocument() tele.HandlerFunc {
	return s.UnknownText()
}

// UnknownCallback keeps the registry default.
func (s *Service) UnknownCallback() tele.HandlerFunc {
	return nil
}
