package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesdash/config"
	"github.com/talkincode/salesdash/internal/domain"
)

func sqliteConfig(t *testing.T) *config.AppConfig {
	dir := t.TempDir()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = dir
	cfg.Database = config.DBConfig{Type: "sqlite", Name: "sales.db"}
	cfg.Logger.FileEnable = true
	cfg.Logger.Filename = filepath.Join(dir, "salesdash.log")
	return &cfg
}

func regionNames(t *testing.T, a *Application) []string {
	var names []string
	require.NoError(t, a.DB().Model(&domain.Region{}).Order("name").Pluck("name", &names).Error)
	return names
}

func TestApplicationInit(t *testing.T) {
	cfg := sqliteConfig(t)
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	defer a.Release()

	assert.FileExists(t, filepath.Join(cfg.GetDataDir(), "sales.db"))
	assert.Equal(t, []string{"Central", "East", "South", "West"}, regionNames(t, a))

	a.checkRegions()
	assert.Len(t, regionNames(t, a), 4, "seeding is idempotent")

	require.NoError(t, a.DB().Create(&domain.Product{ProductCode: "P-1", Name: "Pen", UnitPrice: 1}).Error)
	require.NoError(t, a.InitDb())
	var products int64
	require.NoError(t, a.DB().Model(&domain.Product{}).Count(&products).Error)
	assert.Zero(t, products)
	assert.Len(t, regionNames(t, a), 4)
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := sqliteConfig(t)
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	defer a.Release()

	missing := int64(999)
	err := a.DB().Omit("Region", "Product").Create(&domain.Order{
		OrderCode: "X", OrderDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Quantity: 1, Sales: 1, RegionID: &missing,
	}).Error
	assert.Error(t, err)
}

func TestGetDatabaseUnsupported(t *testing.T) {
	_, err := getDatabase(config.DBConfig{Type: "oracle"}, t.TempDir())
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "salesdash.db")+"?_foreign_keys=on", sqliteDSN("", "/data"))
	assert.Equal(t, "/tmp/x.db?_foreign_keys=on", sqliteDSN("/tmp/x.db", "/data"))
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:", "/data"))
}

func TestMonitorTasks(t *testing.T) {
	cfg := sqliteConfig(t)
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	defer a.Release()

	a.SchedProcessMonitorTask()
	a.SchedDatabaseMonitorTask()
	assert.Equal(t, float64(1), testutil.ToFloat64(dbConnGauge.WithLabelValues("open")))
	assert.Positive(t, testutil.ToFloat64(processMemGauge))
}

func TestMonitorJobFollowsMetrics(t *testing.T) {
	cfg := sqliteConfig(t)
	a := NewApplication(cfg)
	require.NoError(t, a.Init(cfg))
	assert.Nil(t, a.sched, "no scheduler without metrics")
	a.Release()

	cfg = sqliteConfig(t)
	cfg.Web.Metrics = true
	b := NewApplication(cfg)
	require.NoError(t, b.Init(cfg))
	defer b.Release()
	require.NotNil(t, b.sched)
	assert.Len(t, b.sched.Entries(), 1)
}
