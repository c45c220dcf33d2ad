package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/shop"
	"github.com/talkincode/toughstore/pkg/metrics"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedPurgeStaleCarts()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedSystemMonitorTask samples host cpu/mem into the metrics store
func (a *Application) SchedSystemMonitorTask() {
	percents, err := cpu.Percent(time.Second, false)
	if err == nil && len(percents) > 0 {
		metrics.Record(metrics.MetricSystemCpuuse, percents[0])
	}
	vmem, err := mem.VirtualMemory()
	if err == nil {
		metrics.Record(metrics.MetricSystemMemuse, vmem.UsedPercent)
	}
}

// SchedPurgeStaleCarts drops carts abandoned beyond store.cart_ttl_hours.
// Carts are ephemeral: either converted into an order or eventually purged.
func (a *Application) SchedPurgeStaleCarts() {
	ttl := a.configManager.GetInt64("store", "cart_ttl_hours")
	if ttl <= 0 {
		ttl = 72
	}
	cutoff := time.Now().Add(-time.Duration(ttl) * time.Hour)

	repo := shop.NewGormCartRepository(a.gormDB)
	purged, err := repo.DeleteStale(context.Background(), cutoff)
	if err != nil {
		zap.L().Error("stale cart purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		zap.L().Info("purged stale carts",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff))
	}
}
