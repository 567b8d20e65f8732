package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions configures AdminOnlyMiddleware. A zero AdminID admits nobody.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// IsAdmin reports whether the update comes from the configured admin.
func (o AdminOptions) IsAdmin(c tele.Context) bool {
	if o.AdminID == 0 {
		return false
	}
	u := c.Sender()
	return u != nil && u.ID == o.AdminID
}

// AdminOnlyMiddleware hands non-admin updates to OnReject, or drops them.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	reject := opts.OnReject
	if reject == nil {
		reject = func(tele.Context) error { return nil }
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.IsAdmin(c) {
				return next(c)
			}
			return reject(c)
		}
	}
}
