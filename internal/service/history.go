package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/flow"
	"lpr-console/internal/render"
	"lpr-console/internal/repository"
	"lpr-console/internal/utils"
)

// recordingAnalyzer forwards to the backend and saves every outcome to history.
type recordingAnalyzer struct {
	backend flow.Analyzer
	repo    *repository.AnalysisRepository
	log     zerolog.Logger
}

func (a *recordingAnalyzer) PredictImage(ctx context.Context, file lpr.File, overlay bool) (lpr.Record, error) {
	rec, err := a.backend.PredictImage(ctx, file, overlay)
	a.record(ctx, lpr.ModeImage, file, rec, err)
	return rec, err
}

func (a *recordingAnalyzer) PredictVideo(ctx context.Context, file lpr.File, skipFrames int) (lpr.Record, error) {
	rec, err := a.backend.PredictVideo(ctx, file, skipFrames)
	a.record(ctx, lpr.ModeVideo, file, rec, err)
	return rec, err
}

// record never fails the analysis; history problems are only logged.
func (a *recordingAnalyzer) record(ctx context.Context, mode lpr.Mode, file lpr.File, rec lpr.Record, analyzeErr error) {
	if a.repo == nil {
		return
	}

	run := buildRun(mode, file, rec, analyzeErr)
	if err := a.repo.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		a.log.Error().
			Err(err).
			Str("mode", string(mode)).
			Str("file", file.Name).
			Msg("failed to save analysis history")
		return
	}

	a.log.Debug().
		Str("run_id", run.ID.String()).
		Int("plates", len(run.Plates)).
		Msg("saved analysis to history")
}

func buildRun(mode lpr.Mode, file lpr.File, rec lpr.Record, analyzeErr error) *repository.AnalysisRun {
	run := &repository.AnalysisRun{
		Mode:     string(mode),
		Filename: file.Name,
		Size:     file.Size,
	}
	if analyzeErr != nil {
		msg := analyzeErr.Error()
		run.Error = &msg
		return run
	}

	run.Success = true
	result := &lpr.Result{Mode: mode, Record: rec}
	if t, ok := result.ExecutionTime(); ok {
		run.ExecutionTime = &t
	}
	run.PlatesFound = result.PlatesFound()
	if raw, err := json.Marshal(rec); err == nil {
		run.Payload = datatypes.JSON(raw)
	}
	run.Plates = detectedPlates(mode, rec)
	return run
}

func detectedPlates(mode lpr.Mode, rec lpr.Record) []repository.DetectedPlate {
	listKey, confKey := "results", "ocr_confidence"
	if mode == lpr.ModeVideo {
		listKey, confKey = "plates_summary", "max_confidence"
	}

	var plates []repository.DetectedPlate
	for _, item := range rec.Records(listKey) {
		number, ok := render.PlateNumber(item)
		if !ok {
			continue
		}
		normalized := utils.NormalizePlate(number)
		if normalized == "" {
			continue
		}
		p := repository.DetectedPlate{Number: number, Normalized: normalized}
		if c, ok := item.Float(confKey); ok {
			p.Confidence = &c
		}
		plates = append(plates, p)
	}
	return plates
}

type RunInfo struct {
	ID            string          `json:"id"`
	Mode          string          `json:"mode"`
	Filename      string          `json:"filename"`
	Size          int64           `json:"size"`
	Success       bool            `json:"success"`
	ExecutionTime *float64        `json:"execution_time,omitempty"`
	PlatesFound   int             `json:"plates_found"`
	Error         *string         `json:"error,omitempty"`
	Plates        []PlateInfo     `json:"plates"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PlateInfo struct {
	Number     string   `json:"number"`
	Normalized string   `json:"normalized"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func (s *ConsoleService) historyRepo() (*repository.AnalysisRepository, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: history is disabled", ErrNotFound)
	}
	return s.repo, nil
}

// ListHistory returns saved runs newest first, optionally only those that detected plate.
func (s *ConsoleService) ListHistory(ctx context.Context, plate string, limit, offset int) ([]RunInfo, error) {
	repo, err := s.historyRepo()
	if err != nil {
		return nil, err
	}

	var normalizedPlate *string
	if plate != "" {
		normalized := utils.NormalizePlate(plate)
		if normalized == "" {
			return nil, fmt.Errorf("%w: plate query cannot be empty", ErrInvalidInput)
		}
		normalizedPlate = &normalized
	}
	if offset < 0 {
		offset = 0
	}

	runs, err := repo.FindRuns(ctx, normalizedPlate, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find runs: %w", err)
	}

	result := make([]RunInfo, 0, len(runs))
	for _, r := range runs {
		result = append(result, toRunInfo(r, false))
	}
	return result, nil
}

func (s *ConsoleService) GetRun(ctx context.Context, id string) (*RunInfo, error) {
	repo, err := s.historyRepo()
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid run id", ErrInvalidInput)
	}

	run, err := repo.GetRun(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	info := toRunInfo(*run, true)
	return &info, nil
}

// PruneHistory deletes runs older than the given number of days.
func (s *ConsoleService) PruneHistory(ctx context.Context, days int) (int64, error) {
	repo, err := s.historyRepo()
	if err != nil {
		return 0, err
	}
	if days <= 0 {
		return 0, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}

	deleted, err := repo.DeleteRunsBefore(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		s.log.Error().Err(err).Int("days", days).Msg("failed to prune history")
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted_count", deleted).Int("days", days).Msg("pruned analysis history")
	}
	return deleted, nil
}

func toRunInfo(r repository.AnalysisRun, withPayload bool) RunInfo {
	info := RunInfo{
		ID:            r.ID.String(),
		Mode:          r.Mode,
		Filename:      r.Filename,
		Size:          r.Size,
		Success:       r.Success,
		ExecutionTime: r.ExecutionTime,
		PlatesFound:   r.PlatesFound,
		Error:         r.Error,
		Plates:        make([]PlateInfo, 0, len(r.Plates)),
		CreatedAt:     r.CreatedAt,
	}
	for _, p := range r.Plates {
		info.Plates = append(info.Plates, PlateInfo{Number: p.Number, Normalized: p.Normalized, Confidence: p.Confidence})
	}
	if withPayload && len(r.Payload) > 0 {
		info.Payload = json.RawMessage(r.Payload)
	}
	return info
}
