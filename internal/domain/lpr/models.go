package lpr

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeImage Mode = "image"
	ModeVideo Mode = "video"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeImage:
		return ModeImage, nil
	case ModeVideo:
		return ModeVideo, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// DefaultSkipFrames is the frame-skip the console sends for videos unless told otherwise.
const DefaultSkipFrames = 2

// File is an upload held in memory until it is sent.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Result is what the backend answered for one analysis.
type Result struct {
	Mode   Mode   `json:"mode"`
	Record Record `json:"record"`
}

func (r *Result) ExecutionTime() (float64, bool) {
	return r.Record.Float("execution_time")
}

// PlatesFound prefers the backend count and falls back to the number of results.
func (r *Result) PlatesFound() int {
	if r.Mode == ModeVideo {
		n, _ := r.Record.Int("unique_plates")
		return n
	}
	if n, ok := r.Record.Int("plates_found"); ok {
		return n
	}
	return len(r.Record.Records("results"))
}

type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded *bool  `json:"model_loaded,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type APIKey struct {
	Key  string `json:"api_key"`
	Name string `json:"name,omitempty"`
	// CreatedAt is kept as the backend sent it; its timestamp format is not guaranteed.
	CreatedAt string `json:"created_at,omitempty"`
}
