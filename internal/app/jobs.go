package app

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

var (
	processCPUGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "salesdash",
		Name:      "process_cpu_percent",
		Help:      "CPU usage of the api process in percent.",
	})
	processMemGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "salesdash",
		Name:      "process_rss_megabytes",
		Help:      "Resident memory of the api process in MB.",
	})
	dbConnGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "salesdash",
		Name:      "db_connections",
		Help:      "Database pool connections by state.",
	}, []string{"state"})
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.UTC
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedProcessMonitorTask()
		go a.SchedDatabaseMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	if cpuuse, err := p.CPUPercent(); err == nil {
		processCPUGauge.Set(cpuuse)
	}
	if meminfo, err := p.MemoryInfo(); err == nil {
		processMemGauge.Set(float64(meminfo.RSS / 1024 / 1024))
	}
}

// SchedDatabaseMonitorTask publishes connection pool statistics and warns
// when requests had to wait for a free connection
func (a *Application) SchedDatabaseMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	sqlDB, err := a.gormDB.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	dbConnGauge.WithLabelValues("open").Set(float64(stats.OpenConnections))
	dbConnGauge.WithLabelValues("in_use").Set(float64(stats.InUse))
	dbConnGauge.WithLabelValues("idle").Set(float64(stats.Idle))
	if stats.WaitCount > 0 {
		zap.S().Debugf("database pool waited %d times, %s total", stats.WaitCount, stats.WaitDuration)
	}
}
