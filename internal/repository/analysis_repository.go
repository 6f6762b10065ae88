package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

type AnalysisRun struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Mode          string    `gorm:"not null"`
	Filename      string    `gorm:"not null"`
	Size          int64
	Success       bool
	ExecutionTime *float64
	PlatesFound   int
	Error         *string
	Payload       datatypes.JSON
	CreatedAt     time.Time       `gorm:"index"`
	Plates        []DetectedPlate `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

type DetectedPlate struct {
	ID         int64     `gorm:"primaryKey"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Number     string    `gorm:"not null"`
	Normalized string    `gorm:"not null;index"`
	Confidence *float64
	CreatedAt  time.Time
}

func (r *AnalysisRepository) CreateRun(ctx context.Context, run *AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	for i := range run.Plates {
		run.Plates[i].RunID = run.ID
		if run.Plates[i].CreatedAt.IsZero() {
			run.Plates[i].CreatedAt = run.CreatedAt
		}
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *AnalysisRepository) GetRun(ctx context.Context, id uuid.UUID) (*AnalysisRun, error) {
	var run AnalysisRun
	err := r.db.WithContext(ctx).
		Preload("Plates").
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRuns lists runs newest first. A non-nil normalizedPlate keeps only runs that detected it.
func (r *AnalysisRepository) FindRuns(ctx context.Context, normalizedPlate *string, limit, offset int) ([]AnalysisRun, error) {
	query := r.db.WithContext(ctx).Model(&AnalysisRun{}).Preload("Plates")

	if normalizedPlate != nil {
		sub := r.db.Model(&DetectedPlate{}).Select("run_id").Where("normalized = ?", *normalizedPlate)
		query = query.Where("id IN (?)", sub)
	}

	query = query.Order("created_at DESC")

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	var runs []AnalysisRun
	err := query.Find(&runs).Error
	return runs, err
}

func (r *AnalysisRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&AnalysisRun{}).Select("id").Where("created_at < ?", cutoff)
		if err := tx.Where("run_id IN (?)", old).Delete(&DetectedPlate{}).Error; err != nil {
			return err
		}
		res := tx.Where("created_at < ?", cutoff).Delete(&AnalysisRun{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
