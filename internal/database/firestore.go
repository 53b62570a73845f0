package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard/internal/config"
	"google.golang.org/api/option"
)

// ConnectFirestore opens the Firestore client used by the remote store
// backend. Without FIRESTORE_CREDENTIALS the application default credentials
// (or FIRESTORE_EMULATOR_HOST) are used.
func ConnectFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.FirestoreCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirestoreProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	log.Info().Str("project", cfg.FirestoreProject).Msg("firestore connection established")
	return client, nil
}
