package cli

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQL schema and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if cfg.StoreBackend == config.StoreBackendFirestore {
		log.Info().Msg("firestore backend has no schema to migrate")
		return nil
	}

	if err := database.Connect(cfg); err != nil {
		return err
	}
	sqlDB, err := database.GetDB().DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.Migrate()
}
