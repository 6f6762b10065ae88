package db

import (
	"fmt"

	"gorm.io/gorm"

	"lpr-console/internal/credential"
	"lpr-console/internal/repository"
)

var models = []any{
	&repository.AnalysisRun{},
	&repository.DetectedPlate{},
	&credential.ClientState{},
}

// Statements that AutoMigrate cannot express. They must stay valid on both sqlite and postgres.
var migrationStatements = []string{
	`CREATE INDEX IF NOT EXISTS ix_detected_plates_normalized_run ON detected_plates(normalized, run_id);`,
	`CREATE INDEX IF NOT EXISTS ix_analysis_runs_mode_created ON analysis_runs(mode, created_at);`,
}

func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
