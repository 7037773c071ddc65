package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

const (
	sweepSchedule   = "@every 10m"
	contactFormIdle = time.Hour
	warmTimeout     = time.Minute
	sweepTimeout    = 30 * time.Second
)

// scheduler wraps cron with a per-run timeout and error logging.
type scheduler struct {
	cron *cron.Cron
}

func (s *scheduler) addCronJob(schedule string, timeout time.Duration, jobFunc func(context.Context) error, errMsg string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := jobFunc(ctx); err != nil {
			slog.Error(errMsg, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %q: %w", schedule, err)
	}
	return nil
}

// startJobs keeps the public collection cache warm and forgets idle consoles and
// contact forms. The caller stops the returned scheduler on shutdown.
func startJobs(cfg *config.Config, client *api.Client, srv *server) (*cron.Cron, error) {
	s := &scheduler{cron: cron.New()}

	warm := func(ctx context.Context) error {
		client.Warm(ctx, content.Projects, content.Experience, content.Education, content.Reviews)
		return ctx.Err()
	}
	if err := s.addCronJob(cfg.CacheWarmSchedule, warmTimeout, warm, "cache warm failed"); err != nil {
		return nil, err
	}

	sweep := func(context.Context) error {
		consoles := srv.consoles.Sweep(cfg.SessionLifetime)
		forms := srv.desk.Sweep(contactFormIdle)
		if consoles+forms > 0 {
			slog.Debug("swept idle state", "consoles", consoles, "contact_forms", forms)
		}
		return nil
	}
	if err := s.addCronJob(sweepSchedule, sweepTimeout, sweep, "idle sweep failed"); err != nil {
		return nil, err
	}

	s.cron.Start()
	slog.Debug("background jobs started", "warm", cfg.CacheWarmSchedule, "sweep", sweepSchedule)
	return s.cron, nil
}
