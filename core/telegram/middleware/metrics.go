package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const outboxKey = "guidebot.outbox"

// outbox tallies what a handler sent for the handler.handled summary.
type outbox struct {
	messages int
	keyboard bool
}

func outboxOf(c tele.Context) *outbox {
	if ob, ok := c.Get(outboxKey).(*outbox); ok {
		return ob
	}
	ob := &outbox{}
	c.Set(outboxKey, ob)
	return ob
}

// RecordMessage counts one outbound message. Code that calls the Bot API
// directly instead of through the context calls it after a successful send.
func RecordMessage(c tele.Context, withKeyboard bool) {
	if c == nil {
		return
	}
	ob := outboxOf(c)
	ob.messages++
	ob.keyboard = ob.keyboard || withKeyboard
}

// GetCounters returns the messages sent so far and whether any carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	ob, _ := c.Get(outboxKey).(*outbox)
	if ob == nil {
		return 0, false
	}
	return ob.messages, ob.keyboard
}

func carriesKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			return v != nil
		case *tele.SendOptions:
			return v != nil && v.ReplyMarkup != nil
		}
	}
	return false
}

// countingContext records successful sends made through the context.
type countingContext struct{ tele.Context }

func (c countingContext) count(err error, opts []interface{}) error {
	if err == nil {
		RecordMessage(c.Context, carriesKeyboard(opts))
	}
	return err
}

func (c countingContext) Send(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Send(what, opts...), opts)
}

func (c countingContext) Reply(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Reply(what, opts...), opts)
}

func (c countingContext) Edit(what interface{}, opts ...interface{}) error {
	return c.count(c.Context.Edit(what, opts...), opts)
}

// SendAlbum counts an album as one message.
func (c countingContext) SendAlbum(a tele.Album, opts ...interface{}) error {
	return c.count(c.Context.SendAlbum(a, opts...), nil)
}

// MessageMetricsMiddleware resets the counters and hands handlers a context
// that counts its sends.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(outboxKey, &outbox{})
		return next(countingContext{Context: c})
	}
}
