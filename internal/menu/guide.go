package menu

import (
	"log/slog"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	"github.com/m3rciful/guidebot/core/telegram/state"
	"github.com/m3rciful/guidebot/internal/guide"

	tele "gopkg.in/telebot.v4"
)

// GuideOpen re-renders the user's current step.
func (s *Service) GuideOpen(c tele.Context) error {
	return s.withSession(c, func(sess state.Accessor) error {
		return s.deliver(c, "guide.open", s.engine.Open(sess))
	})
}

// GuideFastForward jumps to the step for users who already registered.
func (s *Service) GuideFastForward(c tele.Context) error {
	return s.withSession(c, func(sess state.Accessor) error {
		return s.deliver(c, "guide.fast_forward", s.engine.FastForward(sess))
	})
}

// GuideStep moves the user by the navigation token in the callback payload.
func (s *Service) GuideStep(c tele.Context) error {
	raw := callbacks.CallbackPayload(c)
	return s.withSession(c, func(sess state.Accessor) error {
		r, fellBack := s.engine.Navigate(sess, raw)
		if fellBack {
			logger.Warn(tghelpers.BuildContext(c), "service.guide", "guide.token_fallback",
				slog.String("token", logger.SanitizeLimit(raw, 32)),
				slog.Int("step", r.Index),
			)
		}
		return s.deliver(c, "guide.step", r)
	})
}

// withSession runs fn holding the user's lock so concurrent updates from one
// user apply in order.
func (s *Service) withSession(c tele.Context, fn func(state.Accessor) error) error {
	sess := state.FromContext(c, s.store)
	unlock := s.store.Lock(sess.UserID())
	defer unlock()
	return fn(sess)
}

// deliver sends the step media, then the step text with navigation.
// Media failures are logged and do not hide the step.
func (s *Service) deliver(c tele.Context, event string, r guide.Render) error {
	ctx := tghelpers.BuildContext(c)
	var err error
	switch r.Media.Kind() {
	case guide.MediaSingle:
		err = s.messenger.Photo(c, r.Media.URL())
	case guide.MediaGroup:
		err = s.messenger.Album(c, r.Media.URLs())
	case guide.MediaNone:
	}
	if err != nil {
		logger.Warn(ctx, "service.guide", "guide.media_failed",
			slog.Int("step", r.Index),
			slog.String("media", r.Media.Kind().String()),
			slog.String("err", err.Error()),
		)
	}
	if _, err := s.messenger.Text(c, r.Text(), guideKeyboard(r.Nav)); err != nil {
		return err
	}
	logger.Info(ctx, "service.guide", event,
		slog.Int("step", r.Index),
		slog.Int("steps_total", r.Total),
	)
	return nil
}
