package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	startKey      = "metrics:start"
	slowQuery     = 100 * time.Millisecond
	healthTimeout = 2 * time.Second
)

// DatabaseMetricsCollector samples pool gauges on a ticker and, once
// Instrument is called, times every statement gorm runs.
type DatabaseMetricsCollector struct {
	metrics  *Metrics
	logger   *zap.Logger
	sqlDB    *sql.DB
	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewDatabaseMetricsCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseMetricsCollector {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DatabaseMetricsCollector{
		metrics: metrics,
		logger:  logger,
		sqlDB:   sqlDB,
		stopCh:  make(chan struct{}),
	}
}

// Instrument registers gorm callbacks that record db_queries_total and
// db_query_duration_seconds per operation and table.
func (dmc *DatabaseMetricsCollector) Instrument(db *gorm.DB) error {
	cb := db.Callback()

	err := errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_insert", markStart),
		cb.Create().After("gorm:create").Register("metrics:after_insert", dmc.observe("insert")),
		cb.Query().Before("gorm:query").Register("metrics:before_select", markStart),
		cb.Query().After("gorm:query").Register("metrics:after_select", dmc.observe("select")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", markStart),
		cb.Update().After("gorm:update").Register("metrics:after_update", dmc.observe("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", dmc.observe("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", markStart),
		cb.Row().After("gorm:row").Register("metrics:after_row", dmc.observe("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", markStart),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", dmc.observe("raw")),
	)
	if err != nil {
		return fmt.Errorf("failed to instrument database: %w", err)
	}

	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (dmc *DatabaseMetricsCollector) observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := value.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		status := "success"
		if db.Error != nil {
			status = "error"
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				status = "not_found"
			}
		}

		dmc.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQuery {
			dmc.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.Duration("duration", duration),
				zap.Error(db.Error),
			)
		}
	}
}

func (dmc *DatabaseMetricsCollector) Start(interval time.Duration) {
	if dmc.sqlDB == nil {
		dmc.logger.Warn("Cannot start database metrics collector: sqlDB is nil")
		return
	}

	dmc.ticker = time.NewTicker(interval)
	dmc.wg.Add(1)
	go dmc.collectLoop()
	dmc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dmc *DatabaseMetricsCollector) Stop() {
	dmc.stopOnce.Do(func() {
		if dmc.ticker != nil {
			dmc.ticker.Stop()
		}
		close(dmc.stopCh)
		dmc.wg.Wait()
	})
}

func (dmc *DatabaseMetricsCollector) collectLoop() {
	defer dmc.wg.Done()
	dmc.collect()

	for {
		select {
		case <-dmc.ticker.C:
			dmc.collect()
		case <-dmc.stopCh:
			return
		}
	}
}

func (dmc *DatabaseMetricsCollector) collect() {
	if dmc.sqlDB == nil {
		return
	}

	stats := dmc.sqlDB.Stats()
	dmc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dmc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
}

// HealthCheck pings the database with a short deadline.
func (dmc *DatabaseMetricsCollector) HealthCheck() error {
	if dmc.sqlDB == nil {
		dmc.metrics.RecordDBConnectionError()
		return sql.ErrConnDone
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	start := time.Now()
	if err := dmc.sqlDB.PingContext(ctx); err != nil {
		dmc.metrics.RecordDBConnectionError()
		dmc.metrics.RecordDBQuery("ping", "health_check", "error", time.Since(start))
		return err
	}

	dmc.metrics.RecordDBQuery("ping", "health_check", "success", time.Since(start))
	return nil
}
