package database

import (
	"context"
	"fmt"

	"dealspace-api/internal/domain/plans"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open connects to Postgres and migrates the plan mirror table.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("Connected and migrated successfully")
	return db, nil
}

// Migrate creates or updates the plan mirror table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&plans.Record{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SyncCatalog mirrors reg into plan_catalog: one row per plan, upserted by
// key, and rows for keys no longer in the registry removed.
func SyncCatalog(ctx context.Context, db *gorm.DB, reg *plans.Registry) error {
	records := reg.Records()
	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.PlanKey)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear price ids first so a reshuffle of ids between keys does not
		// trip the unique index mid-upsert.
		if err := tx.Model(&plans.Record{}).
			Where("plan_key IN ?", keys).
			Update("stripe_price_id", nil).Error; err != nil {
			return fmt.Errorf("clear price ids: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_key"}},
			UpdateAll: true,
		}).Create(&records).Error; err != nil {
			return fmt.Errorf("upsert plans: %w", err)
		}

		res := tx.Where("plan_key NOT IN ?", keys).Delete(&plans.Record{})
		if res.Error != nil {
			return fmt.Errorf("delete stale plans: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			log.Info().Int64("rows", res.RowsAffected).Msg("removed stale plan rows")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("catalog", reg.Catalog()).
		Int("plans", len(records)).
		Msg("plan catalog synced to database")
	return nil
}
