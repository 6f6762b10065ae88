package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lpr-console/internal/credential"
	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/flow"
	"lpr-console/internal/i18n"
	"lpr-console/internal/render"
	"lpr-console/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Backend is the slice of the inference client the console needs.
type Backend interface {
	flow.Analyzer
	Health(ctx context.Context) (*lpr.HealthStatus, error)
	CreateAPIKey(ctx context.Context, name string) (*lpr.APIKey, error)
}

type Options struct {
	Flow           flow.Options
	NotifyDuration time.Duration
	DefaultLocale  string
}

type ConsoleService struct {
	backend Backend
	store   credential.Store
	repo    *repository.AnalysisRepository
	opts    Options
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*consoleSession
}

type consoleSession struct {
	id       uuid.UUID
	session  *flow.Session
	center   *flow.Center
	catalog  *i18n.Catalog
	renderer *render.Renderer
	lastSeen time.Time
}

// NewConsoleService wires the backend, key store and optional history repository. A nil repo
// disables history.
func NewConsoleService(backend Backend, store credential.Store, repo *repository.AnalysisRepository, opts Options, log zerolog.Logger) *ConsoleService {
	if opts.NotifyDuration <= 0 {
		opts.NotifyDuration = 3 * time.Second
	}
	return &ConsoleService{
		backend:  backend,
		store:    store,
		repo:     repo,
		opts:     opts,
		log:      log,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*consoleSession),
	}
}

type SessionInfo struct {
	ID     string `json:"id"`
	Locale string `json:"locale"`
}

// SessionView is a snapshot plus the rendered result for the current mode.
type SessionView struct {
	ID       string            `json:"id"`
	Locale   string            `json:"locale"`
	Snapshot flow.Snapshot     `json:"session"`
	Image    *render.ImageView `json:"image,omitempty"`
	Video    *render.VideoView `json:"video,omitempty"`
}

func (s *ConsoleService) CreateSession(locale string) SessionInfo {
	if locale == "" {
		locale = s.opts.DefaultLocale
	}
	cat := i18n.New(locale)
	center := flow.NewCenter(s.opts.NotifyDuration)
	id := uuid.New()

	analyzer := &recordingAnalyzer{backend: s.backend, repo: s.repo, log: s.log}
	cs := &consoleSession{
		id:       id,
		session:  flow.NewSession(analyzer, center, cat, s.log.With().Str("session_id", id.String()).Logger(), s.opts.Flow),
		center:   center,
		catalog:  cat,
		renderer: render.New(cat),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = cs
	s.mu.Unlock()

	s.log.Debug().Str("session_id", id.String()).Str("locale", cat.Lang()).Msg("session created")
	return SessionInfo{ID: id.String(), Locale: cat.Lang()}
}

func (s *ConsoleService) lookup(id string) (*consoleSession, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid session id", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.sessions[uid]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	cs.lastSeen = s.now()
	return cs, nil
}

func (s *ConsoleService) CloseSession(id string) error {
	cs, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, cs.id)
	s.mu.Unlock()
	return nil
}

// PruneSessions drops sessions nobody touched for longer than idle. Sessions with an analysis
// in flight are kept.
func (s *ConsoleService) PruneSessions(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, cs := range s.sessions {
		if cs.lastSeen.Before(cutoff) && cs.session.Snapshot().State != flow.StateAnalyzing {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("pruned idle sessions")
	}
	return removed
}

func (s *ConsoleService) SetMode(id, mode string) error {
	cs, err := s.lookup(id)
	if err != nil {
		return err
	}
	m, err := lpr.ParseMode(mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cs.session.SetMode(m)
}

func (s *ConsoleService) SelectFile(id string, file lpr.File) error {
	cs, err := s.lookup(id)
	if err != nil {
		return err
	}
	if err := cs.session.SelectFile(file); err != nil {
		if errors.Is(err, flow.ErrEmptyFile) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return err
	}
	return nil
}

func (s *ConsoleService) RemoveFile(id string) error {
	cs, err := s.lookup(id)
	if err != nil {
		return err
	}
	return cs.session.RemoveFile()
}

// Analyze runs the session's analysis. Backend failures are already turned into the session
// error and an error toast; they come back here wrapped so callers can still inspect them.
func (s *ConsoleService) Analyze(ctx context.Context, id string) (*SessionView, error) {
	cs, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if _, err := cs.session.Analyze(ctx); err != nil {
		if errors.Is(err, flow.ErrNoFile) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if errors.Is(err, flow.ErrBusy) {
			return nil, err
		}
		view := s.view(cs)
		return &view, fmt.Errorf("analysis failed: %w", err)
	}
	view := s.view(cs)
	return &view, nil
}

func (s *ConsoleService) View(id string) (*SessionView, error) {
	cs, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	view := s.view(cs)
	return &view, nil
}

func (s *ConsoleService) view(cs *consoleSession) SessionView {
	snap := cs.session.Snapshot()
	view := SessionView{ID: cs.id.String(), Locale: cs.catalog.Lang(), Snapshot: snap}
	if snap.Result == nil {
		return view
	}
	if snap.Result.Mode == lpr.ModeVideo {
		v := cs.renderer.Video(snap.Result)
		view.Video = &v
	} else {
		v := cs.renderer.Image(snap.Result)
		view.Image = &v
	}
	return view
}

func (s *ConsoleService) Notifications(id string) ([]flow.Toast, error) {
	cs, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return cs.center.Active(), nil
}

// Watch returns the active toasts of a session and a channel for the ones that follow.
func (s *ConsoleService) Watch(id string, buffer int) ([]flow.Toast, <-chan flow.Toast, func(), error) {
	cs, err := s.lookup(id)
	if err != nil {
		return nil, nil, nil, err
	}
	active, ch, cancel := cs.center.Watch(buffer)
	return active, ch, cancel, nil
}

func (s *ConsoleService) Health(ctx context.Context) (*lpr.HealthStatus, error) {
	return s.backend.Health(ctx)
}

type KeyInfo struct {
	Present bool   `json:"present"`
	Masked  string `json:"masked,omitempty"`
}

// GenerateKey asks the backend for a new key and stores it, replacing any previous one.
func (s *ConsoleService) GenerateKey(ctx context.Context) (*lpr.APIKey, error) {
	name := "Product Key " + s.now().Format("2006-01-02")

	key, err := s.backend.CreateAPIKey(ctx, name)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create api key")
		return nil, err
	}
	if key.Name == "" {
		key.Name = name
	}
	if key.CreatedAt == "" {
		key.CreatedAt = s.now().Format(time.RFC3339)
	}

	if err := s.store.Save(ctx, key.Key); err != nil {
		s.log.Error().Err(err).Msg("failed to persist api key")
		return nil, fmt.Errorf("failed to persist api key: %w", err)
	}

	s.log.Info().Str("name", key.Name).Str("key", credential.Mask(key.Key)).Msg("api key generated")
	return key, nil
}

func (s *ConsoleService) CurrentKey(ctx context.Context) (KeyInfo, error) {
	key, err := s.store.Load(ctx)
	if err != nil {
		return KeyInfo{}, fmt.Errorf("failed to load api key: %w", err)
	}
	if key == "" {
		return KeyInfo{}, nil
	}
	return KeyInfo{Present: true, Masked: credential.Mask(key)}, nil
}
