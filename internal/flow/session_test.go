package flow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/i18n"
	"lpr-console/internal/inference"
)

type fakeAnalyzer struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	record  lpr.Record
	err     error

	lastOverlay bool
	lastSkip    int
}

func (f *fakeAnalyzer) run() (lpr.Record, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.record, f.err
}

func (f *fakeAnalyzer) PredictImage(ctx context.Context, file lpr.File, overlay bool) (lpr.Record, error) {
	f.lastOverlay = overlay
	return f.run()
}

func (f *fakeAnalyzer) PredictVideo(ctx context.Context, file lpr.File, skipFrames int) (lpr.Record, error) {
	f.lastSkip = skipFrames
	return f.run()
}

type recordingNotifier struct {
	success []string
	errors  []string
}

func (n *recordingNotifier) Success(m string) { n.success = append(n.success, m) }
func (n *recordingNotifier) Error(m string)   { n.errors = append(n.errors, m) }

func newTestSession(a Analyzer, n Notifier) *Session {
	return NewSession(a, n, i18n.New("en"), zerolog.Nop(), DefaultOptions())
}

func jpeg(name string) lpr.File {
	return lpr.File{Name: name, ContentType: "image/jpeg", Data: []byte("data-" + name)}
}

func TestSessionTransitions(t *testing.T) {
	s := newTestSession(&fakeAnalyzer{}, nil)

	if got := s.Snapshot().State; got != StateIdle {
		t.Fatalf("initial state = %s", got)
	}
	if err := s.SelectFile(jpeg("a.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != StateSelected || snap.File == nil || snap.File.Size != int64(len("data-a.jpg")) {
		t.Fatalf("after select: %+v", snap)
	}
	if err := s.RemoveFile(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if snap := s.Snapshot(); snap.State != StateIdle || snap.File != nil {
		t.Fatalf("after remove: %+v", snap)
	}
}

func TestSelectFileRejectsEmpty(t *testing.T) {
	s := newTestSession(&fakeAnalyzer{}, nil)
	if err := s.SelectFile(lpr.File{Name: "empty.jpg"}); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
	if s.Snapshot().State != StateIdle {
		t.Error("state should stay idle")
	}
}

func TestAnalyzeWithoutFile(t *testing.T) {
	a := &fakeAnalyzer{}
	s := newTestSession(a, nil)

	if _, err := s.Analyze(context.Background()); !errors.Is(err, ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
	if a.calls.Load() != 0 {
		t.Error("analyzer must not be called without a file")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	a := &fakeAnalyzer{record: lpr.Record{"results": []any{map[string]any{"plate_number": "123"}}}}
	n := &recordingNotifier{}
	s := newTestSession(a, n)

	s.SelectFile(jpeg("car.jpg"))
	res, err := s.Analyze(context.Background())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Mode != lpr.ModeImage || !a.lastOverlay {
		t.Errorf("expected image mode with overlay, got %s/%v", res.Mode, a.lastOverlay)
	}

	snap := s.Snapshot()
	if snap.State != StateSelected || snap.Result == nil || snap.Error != "" {
		t.Errorf("after success: %+v", snap)
	}
	if len(n.success) != 1 || n.success[0] != "Found 1 plate(s)" {
		t.Errorf("success toasts = %v", n.success)
	}
}

func TestAnalyzeVideoUsesSkipFrames(t *testing.T) {
	a := &fakeAnalyzer{record: lpr.Record{"unique_plates": float64(0)}}
	n := &recordingNotifier{}
	s := newTestSession(a, n)

	s.SetMode(lpr.ModeVideo)
	s.SelectFile(lpr.File{Name: "clip.mp4", Data: []byte("mp4")})
	if _, err := s.Analyze(context.Background()); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.lastSkip != lpr.DefaultSkipFrames {
		t.Errorf("skip frames = %d", a.lastSkip)
	}
	if len(n.success) != 1 || n.success[0] != "Video processed successfully" {
		t.Errorf("success toasts = %v", n.success)
	}
}

func TestAnalyzeFailure(t *testing.T) {
	cat := i18n.New("en")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error", &inference.APIError{Status: 413, Kind: inference.KindTooLarge, Message: cat.T(i18n.ErrTooLarge)}, cat.T(i18n.ErrTooLarge)},
		{"plain error", errors.New("decode failed"), cat.T(i18n.ErrUnexpected)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAnalyzer{record: lpr.Record{"results": []any{}}}
			n := &recordingNotifier{}
			s := newTestSession(a, n)

			s.SelectFile(jpeg("car.jpg"))
			if _, err := s.Analyze(context.Background()); err != nil {
				t.Fatalf("first analyze: %v", err)
			}

			a.err = tt.err
			if _, err := s.Analyze(context.Background()); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}

			snap := s.Snapshot()
			if snap.State != StateSelected {
				t.Errorf("state = %s, want selected", snap.State)
			}
			if snap.Result != nil {
				t.Error("result should be cleared on failure")
			}
			if snap.Error != tt.want {
				t.Errorf("error = %q, want %q", snap.Error, tt.want)
			}
			if len(n.errors) != 1 || n.errors[0] != tt.want {
				t.Errorf("error toasts = %v", n.errors)
			}

			a.err = nil
			if _, err := s.Analyze(context.Background()); err != nil {
				t.Errorf("retry after failure should work: %v", err)
			}
		})
	}
}

func TestConcurrentAnalyzeIsNoop(t *testing.T) {
	a := &fakeAnalyzer{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		record:  lpr.Record{},
	}
	s := newTestSession(a, nil)
	s.SelectFile(jpeg("car.jpg"))

	done := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background())
		done <- err
	}()

	select {
	case <-a.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first analysis did not start")
	}

	before := s.Snapshot()
	if before.State != StateAnalyzing {
		t.Fatalf("state = %s, want analyzing", before.State)
	}

	if _, err := s.Analyze(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second analyze: expected ErrBusy, got %v", err)
	}
	if err := s.SelectFile(jpeg("other.jpg")); !errors.Is(err, ErrBusy) {
		t.Errorf("select during analysis: expected ErrBusy, got %v", err)
	}
	if err := s.RemoveFile(); !errors.Is(err, ErrBusy) {
		t.Errorf("remove during analysis: expected ErrBusy, got %v", err)
	}
	if err := s.SetMode(lpr.ModeVideo); !errors.Is(err, ErrBusy) {
		t.Errorf("mode change during analysis: expected ErrBusy, got %v", err)
	}

	after := s.Snapshot()
	if after.State != before.State || after.File.Name != before.File.Name || after.Mode != before.Mode {
		t.Errorf("state changed by rejected calls: %+v -> %+v", before, after)
	}
	if got := a.calls.Load(); got != 1 {
		t.Errorf("analyzer calls = %d, want 1", got)
	}

	close(a.release)
	if err := <-done; err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if got := a.calls.Load(); got != 1 {
		t.Errorf("analyzer calls after completion = %d, want 1", got)
	}
}

func TestSelectFileClearsPreviousResult(t *testing.T) {
	a := &fakeAnalyzer{record: lpr.Record{"results": []any{}}}
	s := newTestSession(a, nil)

	s.SelectFile(jpeg("first.jpg"))
	if _, err := s.Analyze(context.Background()); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if s.Snapshot().Result == nil {
		t.Fatal("expected a result")
	}

	if err := s.SelectFile(jpeg("second.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}
	snap := s.Snapshot()
	if snap.Result != nil {
		t.Error("previous result should be cleared on select")
	}
	if snap.File.Name != "second.jpg" {
		t.Errorf("file = %s", snap.File.Name)
	}
	if got := a.calls.Load(); got != 1 {
		t.Errorf("select must not trigger a request, calls = %d", got)
	}
}

func TestSetModeClearsResult(t *testing.T) {
	a := &fakeAnalyzer{record: lpr.Record{}}
	s := newTestSession(a, nil)

	s.SelectFile(jpeg("car.jpg"))
	s.Analyze(context.Background())

	s.SetMode(lpr.ModeImage)
	if s.Snapshot().Result == nil {
		t.Error("same mode should keep result")
	}
	s.SetMode(lpr.ModeVideo)
	snap := s.Snapshot()
	if snap.Result != nil || snap.Mode != lpr.ModeVideo || snap.File == nil {
		t.Errorf("after mode change: %+v", snap)
	}
}

func TestErrorMessageUsesSessionLanguage(t *testing.T) {
	ar := i18n.New("ar")
	err := &inference.APIError{Status: 401, Kind: inference.KindAuth, Message: i18n.New("en").T(i18n.ErrUnauthorized)}

	if got, want := ErrorMessage(err, ar), ar.T(i18n.ErrUnauthorized); got != want {
		t.Errorf("ErrorMessage = %q, want %q", got, want)
	}

	unknown := &inference.APIError{Status: 418, Kind: inference.KindUnknown}
	if got, want := ErrorMessage(unknown, ar), ar.T(i18n.ErrUnknown, 418); got != want {
		t.Errorf("ErrorMessage = %q, want %q", got, want)
	}
}
