package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lpr-console/internal/credential"
	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/flow"
	"lpr-console/internal/i18n"
	"lpr-console/internal/inference"
	"lpr-console/internal/repository"
)

type fakeBackend struct {
	record   lpr.Record
	err      error
	keyNames []string

	started chan struct{}
	release chan struct{}
}

func (f *fakeBackend) PredictImage(ctx context.Context, file lpr.File, overlay bool) (lpr.Record, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.record, f.err
}

func (f *fakeBackend) PredictVideo(ctx context.Context, file lpr.File, skipFrames int) (lpr.Record, error) {
	return f.record, f.err
}

func (f *fakeBackend) Health(ctx context.Context) (*lpr.HealthStatus, error) {
	return &lpr.HealthStatus{Status: "healthy"}, nil
}

func (f *fakeBackend) CreateAPIKey(ctx context.Context, name string) (*lpr.APIKey, error) {
	f.keyNames = append(f.keyNames, name)
	return &lpr.APIKey{Key: "lpr_0123456789abcdef"}, nil
}

func newTestService(t *testing.T, backend Backend) (*ConsoleService, credential.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&repository.AnalysisRun{}, &repository.DetectedPlate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := credential.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	svc := NewConsoleService(backend, store, repository.NewAnalysisRepository(db), Options{
		Flow:          flow.DefaultOptions(),
		DefaultLocale: "en",
	}, zerolog.Nop())
	return svc, store
}

func image(name string) lpr.File {
	return lpr.File{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg")}
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	backend := &fakeBackend{record: lpr.Record{
		"success":        true,
		"execution_time": 0.42,
		"results": []any{
			map[string]any{"plate_number": "١٢٣٤٥", "ocr_confidence": 0.93},
			map[string]any{"plate_number": "unknown"},
		},
	}}
	svc, _ := newTestService(t, backend)
	ctx := context.Background()

	info := svc.CreateSession("")
	if err := svc.SelectFile(info.ID, image("car.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}
	view, err := svc.Analyze(ctx, info.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if view.Image == nil || view.Image.Count != 2 {
		t.Fatalf("unexpected view: %+v", view)
	}

	toasts, _ := svc.Notifications(info.ID)
	if len(toasts) != 1 || toasts[0].Severity != flow.SeveritySuccess {
		t.Errorf("toasts = %+v", toasts)
	}

	runs, err := svc.ListHistory(ctx, "12 345", 0, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs", len(runs))
	}
	run := runs[0]
	if !run.Success || run.PlatesFound != 2 || run.Filename != "car.jpg" {
		t.Errorf("unexpected run: %+v", run)
	}
	if len(run.Plates) != 1 || run.Plates[0].Normalized != "12345" {
		t.Errorf("unexpected plates: %+v", run.Plates)
	}

	full, err := svc.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if len(full.Payload) == 0 {
		t.Error("expected stored payload")
	}
}

func TestAnalyzeFailureIsRecorded(t *testing.T) {
	apiErr := &inference.APIError{Status: 429, Kind: inference.KindRateLimited}
	svc, _ := newTestService(t, &fakeBackend{err: apiErr})
	ctx := context.Background()

	info := svc.CreateSession("ar")
	svc.SelectFile(info.ID, image("car.jpg"))

	view, err := svc.Analyze(ctx, info.ID)
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	want := i18n.New("ar").T(i18n.ErrRateLimited)
	if view == nil || view.Snapshot.Error != want || view.Snapshot.State != flow.StateSelected {
		t.Errorf("unexpected view: %+v", view)
	}

	runs, _ := svc.ListHistory(ctx, "", 0, 0)
	if len(runs) != 1 || runs[0].Success || runs[0].Error == nil {
		t.Errorf("expected one failed run, got %+v", runs)
	}
}

func TestSessionErrors(t *testing.T) {
	svc, _ := newTestService(t, &fakeBackend{})
	info := svc.CreateSession("en")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"bad id", svc.RemoveFile("not-a-uuid"), ErrInvalidInput},
		{"unknown id", svc.RemoveFile("7d3f6f5e-3c1a-4c1e-9a57-4f4b3b1b2a10"), ErrNotFound},
		{"bad mode", svc.SetMode(info.ID, "audio"), ErrInvalidInput},
		{"empty file", svc.SelectFile(info.ID, lpr.File{Name: "x.jpg"}), ErrInvalidInput},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.err)
		}
	}

	if _, err := svc.Analyze(context.Background(), info.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("analyze without file: expected ErrInvalidInput, got %v", err)
	}

	if err := svc.CloseSession(info.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.View(info.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("closed session: expected ErrNotFound, got %v", err)
	}
}

func TestGenerateKey(t *testing.T) {
	backend := &fakeBackend{}
	svc, store := newTestService(t, backend)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if info, err := svc.CurrentKey(ctx); err != nil || info.Present {
		t.Fatalf("expected no key, got %+v, %v", info, err)
	}

	key, err := svc.GenerateKey(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(backend.keyNames) != 1 || backend.keyNames[0] != "Product Key 2026-10-18" {
		t.Errorf("key names = %v", backend.keyNames)
	}
	if key.Name != "Product Key 2026-10-18" {
		t.Errorf("name = %q", key.Name)
	}

	stored, _ := store.Load(ctx)
	if stored != "lpr_0123456789abcdef" {
		t.Errorf("stored key = %q", stored)
	}

	info, err := svc.CurrentKey(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !info.Present || info.Masked != "lpr_************cdef" {
		t.Errorf("current key = %+v", info)
	}
}

func TestPruneSessions(t *testing.T) {
	svc, _ := newTestService(t, &fakeBackend{})
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := svc.CreateSession("en")
	now = now.Add(time.Hour)
	fresh := svc.CreateSession("en")

	if removed := svc.PruneSessions(30 * time.Minute); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := svc.View(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale session should be gone, got %v", err)
	}
	if _, err := svc.View(fresh.ID); err != nil {
		t.Errorf("fresh session should remain: %v", err)
	}
}

func TestPruneHistoryRejectsNonPositiveDays(t *testing.T) {
	svc, _ := newTestService(t, &fakeBackend{})
	if _, err := svc.PruneHistory(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPruneSessionsKeepsAnalyzing(t *testing.T) {
	backend := &fakeBackend{
		record:  lpr.Record{"results": []any{}},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc, _ := newTestService(t, backend)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	info := svc.CreateSession("en")
	if err := svc.SelectFile(info.ID, image("car.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), info.ID)
		done <- err
	}()

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not start")
	}

	now = now.Add(time.Hour)
	if removed := svc.PruneSessions(30 * time.Minute); removed != 0 {
		t.Errorf("removed = %d, want 0 while analyzing", removed)
	}

	close(backend.release)
	if err := <-done; err != nil {
		t.Fatalf("analyze: %v", err)
	}
	view, err := svc.View(info.ID)
	if err != nil {
		t.Fatalf("session dropped during analysis: %v", err)
	}
	if view.Snapshot.State != flow.StateSelected || view.Image == nil {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestGenerateKeyKeepsBackendTimestamp(t *testing.T) {
	svc, _ := newTestService(t, &fakeBackend{})
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }

	key, err := svc.GenerateKey(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if key.CreatedAt != "2026-10-18T09:00:00Z" {
		t.Errorf("created_at = %q", key.CreatedAt)
	}
}
