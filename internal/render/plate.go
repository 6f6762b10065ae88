package render

import (
	"sort"
	"strings"
	"unicode/utf8"

	"lpr-console/internal/domain/lpr"
)

// plateKeys are the fields the backend has used for the plate text, most specific first.
var plateKeys = []string{"plate_number", "car_number", "raw_ocr", "number", "plate"}

var sentinels = map[string]bool{
	"":          true,
	"unknown":   true,
	"null":      true,
	"undefined": true,
}

const minReadLength = 3

// PlateNumber resolves the plate text of a detection record. It returns false when neither the
// plate fields nor the raw OCR reads hold a usable value.
func PlateNumber(rec lpr.Record) (string, bool) {
	for _, key := range plateKeys {
		if s, ok := usableText(rec, key); ok {
			return s, true
		}
	}

	reads := validReads(rec)
	if len(reads) == 0 {
		return "", false
	}
	sort.SliceStable(reads, func(i, j int) bool {
		return reads[i].confidence > reads[j].confidence
	})
	return reads[0].digits, true
}

func usableText(rec lpr.Record, key string) (string, bool) {
	s, ok := rec.String(key)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if sentinels[strings.ToLower(s)] {
		return "", false
	}
	return s, true
}

type rawRead struct {
	digits     string
	confidence float64
	rec        lpr.Record
}

// validReads keeps raw_reads entries whose trimmed digits are at least minReadLength runes,
// in their original order.
func validReads(rec lpr.Record) []rawRead {
	entries := rec.Records("raw_reads")
	reads := make([]rawRead, 0, len(entries))
	for _, e := range entries {
		digits, ok := e.String("digits")
		if !ok {
			continue
		}
		digits = strings.TrimSpace(digits)
		if utf8.RuneCountInString(digits) < minReadLength {
			continue
		}
		conf, _ := e.Float("confidence")
		reads = append(reads, rawRead{digits: digits, confidence: conf, rec: e})
	}
	return reads
}
