// Package flow holds the upload/analyze state machine: one selected file, one mode, and at
// most one analysis in flight per session.
package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/i18n"
	"lpr-console/internal/inference"
)

type State string

const (
	StateIdle      State = "idle"
	StateSelected  State = "selected"
	StateAnalyzing State = "analyzing"
)

var (
	ErrBusy      = errors.New("analysis already in progress")
	ErrNoFile    = errors.New("no file selected")
	ErrEmptyFile = errors.New("file is empty")
)

type Analyzer interface {
	PredictImage(ctx context.Context, file lpr.File, overlay bool) (lpr.Record, error)
	PredictVideo(ctx context.Context, file lpr.File, skipFrames int) (lpr.Record, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

type Options struct {
	Overlay    bool
	SkipFrames int
}

func DefaultOptions() Options {
	return Options{Overlay: true, SkipFrames: lpr.DefaultSkipFrames}
}

type Session struct {
	analyzer Analyzer
	notifier Notifier
	catalog  *i18n.Catalog
	log      zerolog.Logger
	opts     Options

	mu     sync.Mutex
	state  State
	mode   lpr.Mode
	file   *lpr.File
	result *lpr.Result
	errMsg string
}

// Snapshot is a copy of the session state safe to hand to renderers.
type Snapshot struct {
	State  State       `json:"state"`
	Mode   lpr.Mode    `json:"mode"`
	File   *lpr.File   `json:"file,omitempty"`
	Result *lpr.Result `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func NewSession(analyzer Analyzer, notifier Notifier, catalog *i18n.Catalog, log zerolog.Logger, opts Options) *Session {
	return &Session{
		analyzer: analyzer,
		notifier: notifier,
		catalog:  catalog,
		log:      log,
		opts:     opts,
		state:    StateIdle,
		mode:     lpr.ModeImage,
	}
}

// SelectFile replaces the current file and drops any previous result right away.
func (s *Session) SelectFile(file lpr.File) error {
	if len(file.Data) == 0 {
		return ErrEmptyFile
	}
	if file.Size == 0 {
		file.Size = int64(len(file.Data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ErrBusy
	}
	s.file = &file
	s.result = nil
	s.errMsg = ""
	s.state = StateSelected
	return nil
}

func (s *Session) RemoveFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ErrBusy
	}
	s.file = nil
	s.result = nil
	s.errMsg = ""
	s.state = StateIdle
	return nil
}

func (s *Session) SetMode(mode lpr.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ErrBusy
	}
	if s.mode != mode {
		s.mode = mode
		s.result = nil
		s.errMsg = ""
	}
	return nil
}

// Analyze sends the selected file to the backend. A call made while another analysis is
// running returns ErrBusy and leaves the session untouched.
func (s *Session) Analyze(ctx context.Context) (*lpr.Result, error) {
	s.mu.Lock()
	if s.state == StateAnalyzing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.file == nil {
		s.mu.Unlock()
		return nil, ErrNoFile
	}
	s.state = StateAnalyzing
	s.result = nil
	s.errMsg = ""
	file := *s.file
	mode := s.mode
	s.mu.Unlock()

	s.log.Info().
		Str("mode", string(mode)).
		Str("file", file.Name).
		Int64("size", file.Size).
		Msg("analysis started")

	var (
		record lpr.Record
		err    error
	)
	if mode == lpr.ModeVideo {
		record, err = s.analyzer.PredictVideo(ctx, file, s.opts.SkipFrames)
	} else {
		record, err = s.analyzer.PredictImage(ctx, file, s.opts.Overlay)
	}

	if err != nil {
		msg := ErrorMessage(err, s.catalog)

		s.mu.Lock()
		s.state = StateSelected
		s.result = nil
		s.errMsg = msg
		s.mu.Unlock()

		s.log.Warn().Err(err).Str("mode", string(mode)).Str("file", file.Name).Msg("analysis failed")
		s.notify(func(n Notifier) { n.Error(msg) })
		return nil, err
	}

	result := &lpr.Result{Mode: mode, Record: record}

	s.mu.Lock()
	s.state = StateSelected
	s.result = result
	s.mu.Unlock()

	s.log.Info().
		Str("mode", string(mode)).
		Str("file", file.Name).
		Int("plates", result.PlatesFound()).
		Msg("analysis finished")
	s.notify(func(n Notifier) { n.Success(s.successMessage(result)) })
	return result, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:  s.state,
		Mode:   s.mode,
		Result: s.result,
		Error:  s.errMsg,
	}
	if s.file != nil {
		f := *s.file
		snap.File = &f
	}
	return snap
}

func (s *Session) notify(fn func(Notifier)) {
	if s.notifier != nil {
		fn(s.notifier)
	}
}

func (s *Session) successMessage(res *lpr.Result) string {
	if res.Mode == lpr.ModeVideo {
		return s.catalog.T(i18n.ToastVideoDone)
	}
	if n := res.PlatesFound(); n > 0 {
		return s.catalog.T(i18n.ToastPlatesFound, n)
	}
	return s.catalog.T(i18n.ToastImageDone)
}

// ErrorMessage turns any analysis error into the single string shown to the user.
func ErrorMessage(err error, cat *i18n.Catalog) string {
	var apiErr *inference.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Localized(cat)
	}
	return cat.T(i18n.ErrUnexpected)
}
