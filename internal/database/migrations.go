package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
)

// AddIndexes makes sure the lookup indexes exist. AutoMigrate creates them
// from struct tags on a fresh database; this covers tables created by older
// builds before the tags were added.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
	}{
		// getTasks(userAddress) lookups
		{&models.Task{}, "idx_tasks_user_address"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Msg("created index")
	}

	return nil
}

// MigrateDatabase runs the post-AutoMigrate steps
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
