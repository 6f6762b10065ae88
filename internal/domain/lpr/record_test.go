package lpr

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) Record {
	t.Helper()
	var r Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return r
}

func TestRecordAccessorsTolerateBadTypes(t *testing.T) {
	r := decode(t, `{
		"plate_number": 42,
		"ocr_confidence": "0.75",
		"governorate_code": 7,
		"success": "yes",
		"results": [{"a": 1}, "junk", null, {"b": 2}],
		"debug_info": "none"
	}`)

	if _, ok := r.String("plate_number"); ok {
		t.Error("number should not be accepted as string")
	}
	if got, ok := r.Text("governorate_code"); !ok || got != "7" {
		t.Errorf("Text(governorate_code) = %q, %v", got, ok)
	}
	if got, ok := r.Float("ocr_confidence"); !ok || got != 0.75 {
		t.Errorf("Float(ocr_confidence) = %v, %v", got, ok)
	}
	if _, ok := r.Bool("success"); ok {
		t.Error("string should not be accepted as bool")
	}
	if got := len(r.Records("results")); got != 2 {
		t.Errorf("expected 2 object entries, got %d", got)
	}
	if r.Record("debug_info") != nil {
		t.Error("non-object debug_info should be nil")
	}
	if _, ok := r.Float("missing"); ok {
		t.Error("missing key should report !ok")
	}
}

func TestNilRecord(t *testing.T) {
	var r Record
	if _, ok := r.String("x"); ok {
		t.Error("nil record should have no values")
	}
	if r.Records("x") != nil {
		t.Error("nil record should have no lists")
	}
}

func TestResultPlatesFound(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want int
	}{
		{"backend count wins", Result{Mode: ModeImage, Record: decode(t, `{"plates_found": 3, "results": [{}]}`)}, 3},
		{"falls back to results", Result{Mode: ModeImage, Record: decode(t, `{"results": [{}, {}]}`)}, 2},
		{"video unique plates", Result{Mode: ModeVideo, Record: decode(t, `{"unique_plates": 5}`)}, 5},
		{"empty", Result{Mode: ModeImage}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.PlatesFound(); got != tt.want {
				t.Errorf("PlatesFound() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" Video "); err != nil || m != ModeVideo {
		t.Errorf("ParseMode(Video) = %v, %v", m, err)
	}
	if _, err := ParseMode("audio"); err == nil {
		t.Error("expected error for audio")
	}
}
