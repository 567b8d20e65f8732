package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		cb      *tele.Callback
		unique  string
		payload string
	}{
		{nil, "", ""},
		{&tele.Callback{Data: "\fguide_nav|next:2"}, "guide_nav", "next:2"},
		{&tele.Callback{Data: "\fguide_open"}, "guide_open", ""},
		{&tele.Callback{Data: "\fguide_nav|prev:0|x"}, "guide_nav", "prev:0|x"},
		{&tele.Callback{Unique: "events", Data: "p"}, "events", "p"},
		{&tele.Callback{Data: "test"}, "test", ""},
	}
	for _, tc := range cases {
		u, p := ParseCallbackData(tc.cb)
		if u != tc.unique || p != tc.payload {
			t.Fatalf("ParseCallbackData(%+v) = %q, %q; want %q, %q", tc.cb, u, p, tc.unique, tc.payload)
		}
	}
}
