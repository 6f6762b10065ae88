// Package i18n holds the user-facing texts of the console in English and Arabic.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

type Key string

const (
	ErrBadInput     Key = "error.bad_input"
	ErrUnauthorized Key = "error.unauthorized"
	ErrTooLarge     Key = "error.too_large"
	ErrRateLimited  Key = "error.rate_limited"
	ErrServer       Key = "error.server"
	ErrTimeout      Key = "error.timeout"
	ErrNetwork      Key = "error.network"
	ErrUnknown      Key = "error.unknown"
	ErrUnexpected   Key = "error.unexpected"
	ErrKeyCreate    Key = "error.key_create"

	ToastPlatesFound  Key = "toast.plates_found"
	ToastImageDone    Key = "toast.image_done"
	ToastVideoDone    Key = "toast.video_done"
	ToastKeyGenerated Key = "toast.key_generated"

	NotAvailable   Key = "label.not_available"
	PlateNotFound  Key = "plate.not_found"
	SuggestClearer Key = "suggest.clearer"
	SuggestVisible Key = "suggest.visible"
	SuggestLight   Key = "suggest.lighting"

	BadgeTrusted     Key = "badge.trusted"
	BadgeNeedsReview Key = "badge.review"
	BadgeWeak        Key = "badge.weak"
)

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

type Catalog struct {
	lang     language.Tag
	messages map[Key]string
}

// New returns the catalog that best matches the given locale or Accept-Language value.
// Anything unrecognised falls back to English.
func New(locale string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	_, idx, _ := matcher.Match(tags...)

	lang := supported[idx]
	msgs := english
	if lang == language.Arabic {
		msgs = arabic
	}
	return &Catalog{lang: lang, messages: msgs}
}

func (c *Catalog) Lang() string {
	return c.lang.String()
}

// T formats the message for key with args. Unknown keys render as the key itself.
func (c *Catalog) T(key Key, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = english[key]
	}
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Label looks up a categorical display label such as "color.blue".
func (c *Catalog) Label(group, value string) (string, bool) {
	key := Key(group + "." + value)
	if msg, ok := c.messages[key]; ok {
		return msg, true
	}
	msg, ok := english[key]
	return msg, ok
}
