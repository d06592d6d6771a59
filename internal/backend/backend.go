// Package backend opens the document store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"rescue/internal/adapter/boltstore"
	"rescue/internal/adapter/firestoredb"
	"rescue/internal/adapter/repo"
	"rescue/internal/domain"
	"rescue/internal/infra"
)

// Open returns the domain.Store for cfg.StoreDriver. The caller closes it.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.Store, error) {
	log := logger.With().Str("driver", cfg.StoreDriver).Logger()

	switch cfg.StoreDriver {
	case infra.DriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("postgres pool ready")
		return repo.NewStore(infra.NewSQLRunner(pool, log), log, pool.Close), nil
	case infra.DriverBolt:
		store, err := boltstore.Open(cfg.BoltPath, log)
		if err != nil {
			return nil, fmt.Errorf("open bolt %s: %w", cfg.BoltPath, err)
		}
		log.Info().Str("path", cfg.BoltPath).Msg("bolt store ready")
		return store, nil
	case infra.DriverFirestore:
		store, err := firestoredb.Open(ctx, cfg.FirestoreProjectID, log)
		if err != nil {
			return nil, fmt.Errorf("open firestore %s: %w", cfg.FirestoreProjectID, err)
		}
		log.Info().Str("project", cfg.FirestoreProjectID).Msg("firestore client ready")
		return store, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
