package menu

import (
	"errors"
	"strconv"

	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	"github.com/m3rciful/guidebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// maxAlbumSize is Telegram's limit on items in one media group.
const maxAlbumSize = 10

var errNoChat = errors.New("menu: update has no chat")

// Messenger delivers rendered output to the chat of the current update.
type Messenger interface {
	// Text sends a message and returns its id.
	Text(c tele.Context, text string, markup *tele.ReplyMarkup) (int, error)
	Photo(c tele.Context, url string) error
	Album(c tele.Context, urls []string) error
	EditText(c tele.Context, messageID int, text string, markup *tele.ReplyMarkup) error
	Typing(c tele.Context) error
}

// TelebotMessenger sends through the bot API of the update context.
type TelebotMessenger struct{}

func sendOptions(markup *tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	if markup != nil {
		opts.ReplyMarkup = markup
	}
	return opts
}

// Text sends plain text and returns the new message id.
func (TelebotMessenger) Text(c tele.Context, text string, markup *tele.ReplyMarkup) (int, error) {
	msg, err := c.Bot().Send(c.Recipient(), text, sendOptions(markup))
	if err != nil {
		return 0, err
	}
	middleware.RecordMessage(c, markup != nil)
	return msg.ID, nil
}

// Photo sends one image by URL.
func (TelebotMessenger) Photo(c tele.Context, url string) error {
	if _, err := c.Bot().Send(c.Recipient(), &tele.Photo{File: tele.FromURL(url)}); err != nil {
		return err
	}
	middleware.RecordMessage(c, false)
	return nil
}

// Album sends images as media groups of up to ten items each.
func (TelebotMessenger) Album(c tele.Context, urls []string) error {
	for start := 0; start < len(urls); start += maxAlbumSize {
		chunk := urls[start:min(start+maxAlbumSize, len(urls))]
		if len(chunk) == 1 {
			if err := (TelebotMessenger{}).Photo(c, chunk[0]); err != nil {
				return err
			}
			continue
		}
		album := make(tele.Album, 0, len(chunk))
		for _, u := range chunk {
			album = append(album, &tele.Photo{File: tele.FromURL(u)})
		}
		if _, err := c.Bot().SendAlbum(c.Recipient(), album); err != nil {
			return err
		}
		middleware.RecordMessage(c, false)
	}
	return nil
}

// EditText replaces the text and keyboard of a message in the current chat.
func (TelebotMessenger) EditText(c tele.Context, messageID int, text string, markup *tele.ReplyMarkup) error {
	chat := c.Chat()
	if chat == nil {
		return errNoChat
	}
	ref := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chat.ID}
	if _, err := c.Bot().Edit(ref, text, sendOptions(markup)); err != nil {
		return err
	}
	middleware.RecordMessage(c, markup != nil)
	return nil
}

// Typing shows the typing action through the async dispatcher.
func (TelebotMessenger) Typing(c tele.Context) error {
	return tghelpers.Typing(c)
}
