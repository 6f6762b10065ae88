package render

import (
	"encoding/json"
	"testing"

	"lpr-console/internal/domain/lpr"
)

func record(t *testing.T, s string) lpr.Record {
	t.Helper()
	var r lpr.Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return r
}

func TestPlateNumberRejectsSentinels(t *testing.T) {
	values := []string{"", "   ", "\t\n", "unknown", "UNKNOWN", " Unknown ", "null", "NULL", "undefined", "UnDeFiNeD"}

	for _, key := range plateKeys {
		for _, v := range values {
			raw, _ := json.Marshal(map[string]any{key: v})
			rec := record(t, string(raw))

			got, ok := PlateNumber(rec)
			if ok || got != "" {
				t.Errorf("%s=%q resolved to %q", key, v, got)
			}
		}
	}
}

func TestPlateNumberCandidateOrder(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"plate_number first", `{"plate_number": " 12345 ", "car_number": "999"}`, "12345"},
		{"skips sentinel to next key", `{"plate_number": "unknown", "car_number": "67890"}`, "67890"},
		{"skips non-string", `{"plate_number": 12345, "raw_ocr": "4455"}`, "4455"},
		{"last key", `{"plate": "ABC-1"}`, "ABC-1"},
		{"fields beat raw reads", `{"number": "111", "raw_reads": [{"digits": "99999", "confidence": 0.99}]}`, "111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PlateNumber(record(t, tt.json))
			if !ok || got != tt.want {
				t.Errorf("PlateNumber() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestPlateNumberRawReadsFallback(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		want   string
		wantOK bool
	}{
		{
			name: "max confidence wins",
			json: `{"raw_reads": [
				{"digits": "1111", "confidence": 0.4},
				{"digits": "2222", "confidence": 0.9},
				{"digits": "3333", "confidence": 0.7}
			]}`,
			want: "2222", wantOK: true,
		},
		{
			name: "ties keep first",
			json: `{"raw_reads": [
				{"digits": "1111", "confidence": 0.3},
				{"digits": "2222", "confidence": 0.8},
				{"digits": "3333", "confidence": 0.8}
			]}`,
			want: "2222", wantOK: true,
		},
		{
			name: "short reads are ignored even with high confidence",
			json: `{"raw_reads": [
				{"digits": "12", "confidence": 0.99},
				{"digits": " 7 ", "confidence": 0.98},
				{"digits": "345", "confidence": 0.2}
			]}`,
			want: "345", wantOK: true,
		},
		{
			name: "missing confidence counts as zero",
			json: `{"raw_reads": [
				{"digits": "5555"},
				{"digits": "6666", "confidence": 0.01}
			]}`,
			want: "6666", wantOK: true,
		},
		{
			name: "all missing confidence keeps first",
			json: `{"raw_reads": [{"digits": "7777"}, {"digits": "8888"}]}`,
			want: "7777", wantOK: true,
		},
		{
			name: "junk entries skipped",
			json: `{"raw_reads": [null, "x", {"digits": 12345}, {"raw_text": "ABCDE"}]}`,
			wantOK: false,
		},
		{
			name:   "no reads at all",
			json:   `{"plate_number": "null"}`,
			wantOK: false,
		},
		{
			name:   "raw reads not a list",
			json:   `{"raw_reads": {"digits": "12345"}}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PlateNumber(record(t, tt.json))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PlateNumber() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPlateNumberDoesNotMutateRecord(t *testing.T) {
	rec := record(t, `{"raw_reads": [{"digits": "111", "confidence": 0.1}, {"digits": "222", "confidence": 0.9}]}`)

	PlateNumber(rec)

	reads := rec.Records("raw_reads")
	if d, _ := reads[0].String("digits"); d != "111" {
		t.Errorf("raw_reads were reordered: first is %q", d)
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		conf float64
		want BadgeLevel
	}{
		{1.0, BadgeTrusted},
		{0.80, BadgeTrusted},
		{0.799999, BadgeNeedsReview},
		{0.50, BadgeNeedsReview},
		{0.4999, BadgeWeak},
		{0, BadgeWeak},
		{-1, BadgeWeak},
	}

	for _, tt := range tests {
		if got := BadgeFor(tt.conf); got != tt.want {
			t.Errorf("BadgeFor(%v) = %s, want %s", tt.conf, got, tt.want)
		}
	}
}
