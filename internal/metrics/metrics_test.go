package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Behyna/hisabkitab/pkg/gormdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestSystemCollector_StartStop(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	sc := NewSystemCollector(m, zap.NewNop(), "test")

	sc.Start(10 * time.Millisecond)
	sc.Stop()
	sc.Stop()

	assert.Greater(t, testutil.ToFloat64(m.Goroutines), 0.0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceVersion.WithLabelValues("test", "unknown", sc.startTime.Format("2006-01-02"))))
}

func TestDatabaseMetricsCollector_Instrument(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	db, err := gormdb.NewConnection(context.Background(), gormdb.Config{
		Driver:   gormdb.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "metrics.db"),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	defer gormdb.Close(db)

	collector := NewDatabaseMetricsCollector(m, zap.NewNop(), db)
	require.NoError(t, collector.Instrument(db))

	type probe struct {
		ID   int64
		Name string
	}
	require.NoError(t, db.AutoMigrate(&probe{}))
	require.NoError(t, db.Create(&probe{Name: "a"}).Error)

	var got []probe
	require.NoError(t, db.Find(&got).Error)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("insert", "probes", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("select", "probes", "success")))

	require.NoError(t, collector.HealthCheck())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("ping", "health_check", "success")))

	collector.Start(10 * time.Millisecond)
	collector.Stop()
}
