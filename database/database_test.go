package database

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"dealspace-api/internal/domain/plans"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "plans.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func load(t *testing.T, c plans.Catalog, env map[string]string) *plans.Registry {
	t.Helper()
	reg, err := plans.Load(c, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}, plans.Options{})
	require.NoError(t, err)
	return reg
}

func rows(t *testing.T, db *gorm.DB) map[string]plans.Record {
	t.Helper()
	var got []plans.Record
	require.NoError(t, db.Order("tier_rank").Find(&got).Error)
	out := make(map[string]plans.Record, len(got))
	for _, r := range got {
		out[r.PlanKey] = r
	}
	return out
}

func TestSyncCatalogRemovesStaleRows(t *testing.T) {
	db := openTestDB(t)
	buf := captureLog(t)

	legacy := "price_legacy"
	require.NoError(t, db.Create(&plans.Record{
		PlanKey:       "legacy",
		Catalog:       plans.CatalogPlans,
		TierRank:      9,
		Name:          "Legacy",
		PriceCents:    500,
		Currency:      "usd",
		StripePriceID: &legacy,
	}).Error)

	reg := load(t, plans.PlansCatalog(), nil)
	require.NoError(t, SyncCatalog(context.Background(), db, reg))

	got := rows(t, db)
	assert.Len(t, got, 4)
	assert.NotContains(t, got, "legacy")
	assert.Contains(t, buf.String(), `"rows":1`)
	assert.Contains(t, buf.String(), "removed stale plan rows")

	free := got[string(plans.KeyFree)]
	assert.Equal(t, plans.CatalogPlans, free.Catalog)
	assert.Equal(t, 0, free.TierRank)
	assert.Nil(t, free.StripePriceID)
	assert.Equal(t, plans.Cap(5), free.Limits[plans.ResourceUsers])
	assert.True(t, got[string(plans.KeyEnterprise)].Limits[plans.ResourceUsers].IsUnlimited())
}

func TestSyncCatalogSwitchAndPriceSwap(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := load(t, plans.PlansCatalog(), map[string]string{
		plans.EnvBasicPriceID: "p1",
		plans.EnvProPriceID:   "p2",
	})
	require.NoError(t, SyncCatalog(ctx, db, first))

	got := rows(t, db)
	require.NotNil(t, got[string(plans.KeyBasic)].StripePriceID)
	assert.Equal(t, "p1", *got[string(plans.KeyBasic)].StripePriceID)
	assert.Equal(t, int64(2499), got[string(plans.KeyBasic)].PriceCents)

	// The same ids move between keys; the unique index must hold throughout.
	second := load(t, plans.SubscriptionsCatalog(), map[string]string{
		plans.EnvBasicPriceID: "p2",
		plans.EnvProPriceID:   "p1",
	})
	require.NoError(t, SyncCatalog(ctx, db, second))

	got = rows(t, db)
	require.Len(t, got, 4)

	basic := got[string(plans.KeyBasic)]
	assert.Equal(t, plans.CatalogSubscriptions, basic.Catalog)
	assert.Equal(t, "Basic Plan", basic.Name)
	assert.Equal(t, int64(999), basic.PriceCents)
	require.NotNil(t, basic.StripePriceID)
	assert.Equal(t, "p2", *basic.StripePriceID)

	pro := got[string(plans.KeyPro)]
	assert.Equal(t, plans.CatalogSubscriptions, pro.Catalog)
	require.NotNil(t, pro.StripePriceID)
	assert.Equal(t, "p1", *pro.StripePriceID)

	assert.Nil(t, got[string(plans.KeyEnterprise)].StripePriceID)
	assert.True(t, got[string(plans.KeyPro)].Limits[plans.ResourceDealsPerMonth].IsUnlimited())
}

func TestSyncCatalogIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	reg := load(t, plans.SubscriptionsCatalog(), map[string]string{plans.EnvEnterprisePriceID: "price_ent"})

	require.NoError(t, SyncCatalog(context.Background(), db, reg))
	require.NoError(t, SyncCatalog(context.Background(), db, reg))

	var count int64
	require.NoError(t, db.Model(&plans.Record{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}
