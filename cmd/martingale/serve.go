package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/martingale-lab/internal/health"
	"github.com/yourusername/martingale-lab/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health and metrics endpoints and run sweeps on the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, runNow)
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run one sweep immediately on startup")
	return cmd
}

func serve(ctx context.Context, runNow bool) error {
	svc, db, err := newSweepService(ctx)
	if err != nil {
		return err
	}
	defer closeDB(db)

	var pinger health.DatabasePinger
	if db != nil {
		pinger = db
	}

	server := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
		DB:          pinger,
		Status:      svc.Status,
	})
	if cfg.Metrics.Enabled {
		if err := server.Start(ctx); err != nil {
			return err
		}
	}

	var sched *scheduler.Scheduler
	if cfg.Schedule.SweepCron != "" {
		sched = scheduler.NewScheduler(svc, log)
		timeout := time.Duration(cfg.Schedule.TimeoutMinutes) * time.Minute
		if _, err := sched.ScheduleSweep(cfg.Schedule.SweepCron, timeout); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		log.WithField("next_run", sched.GetNextRun()).Info("Sweep schedule active")
	}

	if runNow {
		if summary, err := svc.RunConfigured(ctx); err != nil {
			log.WithError(err).Error("Startup sweep failed")
		} else {
			log.WithFields(logrus.Fields{"run_id": summary.RunID, "rows": summary.Rows}).Info("Startup sweep completed")
		}
	}

	server.SetReady(true)
	<-ctx.Done()
	server.SetReady(false)

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}
	return nil
}
