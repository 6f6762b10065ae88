package render

import "lpr-console/internal/i18n"

type BadgeLevel string

const (
	BadgeTrusted     BadgeLevel = "trusted"
	BadgeNeedsReview BadgeLevel = "needs_review"
	BadgeWeak        BadgeLevel = "weak"
)

const (
	trustedThreshold = 0.80
	reviewThreshold  = 0.50
)

// BadgeFor grades an OCR confidence. Callers pass 0 for a missing value.
func BadgeFor(conf float64) BadgeLevel {
	switch {
	case conf >= trustedThreshold:
		return BadgeTrusted
	case conf >= reviewThreshold:
		return BadgeNeedsReview
	default:
		return BadgeWeak
	}
}

type Badge struct {
	Level BadgeLevel `json:"level"`
	Label string     `json:"label"`
}

func newBadge(conf float64, cat *i18n.Catalog) Badge {
	level := BadgeFor(conf)
	key := i18n.BadgeWeak
	switch level {
	case BadgeTrusted:
		key = i18n.BadgeTrusted
	case BadgeNeedsReview:
		key = i18n.BadgeNeedsReview
	}
	return Badge{Level: level, Label: cat.T(key)}
}
