package state

import tele "gopkg.in/telebot.v4"

const sessionKey = "progress_session"

// WithSession injects the sender's Accessor into the handler context.
func WithSession(store Store) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if user := c.Sender(); user != nil {
				c.Set(sessionKey, For(store, user.ID))
			}
			return next(c)
		}
	}
}

// FromContext returns the Accessor stored by WithSession. When the middleware
// did not run it builds one from store and the sender.
func FromContext(c tele.Context, store Store) Accessor {
	if v, ok := c.Get(sessionKey).(Accessor); ok {
		return v
	}
	var userID int64
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return For(store, userID)
}
