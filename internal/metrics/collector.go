package metrics

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SystemCollector periodically samples runtime statistics into the gauges.
type SystemCollector struct {
	metrics   *Metrics
	logger    *zap.Logger
	version   string
	startTime time.Time
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewSystemCollector(metrics *Metrics, logger *zap.Logger, version string) *SystemCollector {
	return &SystemCollector{
		metrics:   metrics,
		logger:    logger,
		version:   version,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}
}

func (sc *SystemCollector) Start(interval time.Duration) {
	sc.ticker = time.NewTicker(interval)
	sc.metrics.SetServiceVersion(sc.version, "unknown", sc.startTime.Format("2006-01-02"))

	sc.wg.Add(1)
	go sc.collectLoop()
	sc.logger.Info("System metrics collector started", zap.Duration("interval", interval))
}

func (sc *SystemCollector) Stop() {
	sc.stopOnce.Do(func() {
		if sc.ticker != nil {
			sc.ticker.Stop()
		}
		close(sc.stopCh)
		sc.wg.Wait()
		sc.logger.Info("System metrics collector stopped")
	})
}

func (sc *SystemCollector) collectLoop() {
	defer sc.wg.Done()
	sc.collect()

	for {
		select {
		case <-sc.ticker.C:
			sc.collect()
		case <-sc.stopCh:
			return
		}
	}
}

func (sc *SystemCollector) collect() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sc.metrics.UpdateSystemMetrics(time.Since(sc.startTime), &memStats)
}
