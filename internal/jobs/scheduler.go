// Package jobs runs the background maintenance work: data retention
// cleanup and GeoLite database reloads.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"visitlens/internal/config"
	"visitlens/internal/database"
)

const (
	cleanupInterval = 24 * time.Hour
	// MaxMind refreshes GeoLite weekly; reload picks up a newly
	// downloaded file without a restart.
	geoReloadInterval = 7 * 24 * time.Hour
)

// Scheduler is responsible for running background jobs
type Scheduler struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
	ctx       context.Context
	cancel    context.CancelFunc

	// Mutex to prevent concurrent job executions
	processingMutex sync.Mutex
	isProcessing    bool

	cleanupJob *CleanupJob
	reloadJob  *GeoReloadJob

	wg sync.WaitGroup
}

func NewScheduler(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		dbManager:  dbManager,
		logger:     logger,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		cleanupJob: NewCleanupJob(dbManager.GetConnection(), logger, cfg),
		reloadJob:  NewGeoReloadJob(logger),
	}
}

// Start launches the job tickers.
func (s *Scheduler) Start() {
	s.runTicker("cleanup", cleanupInterval, s.cleanupJob.Run)
	s.runTicker("geoip_reload", geoReloadInterval, s.reloadJob.Run)
	s.logger.Info("Background job scheduler started")
}

// Stop cancels all running tickers and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("Background job scheduler stopped")
}

func (s *Scheduler) runTicker(name string, interval time.Duration, job func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.executeJobSafely(name, job)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// executeJobSafely runs a job only if no other job is currently executing
func (s *Scheduler) executeJobSafely(jobName string, jobFunc func() error) {
	s.processingMutex.Lock()
	if s.isProcessing {
		s.logger.Debug("Skipping job execution - previous job still running", slog.String("job", jobName))
		s.processingMutex.Unlock()
		return
	}
	s.isProcessing = true
	s.processingMutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic recovered in background job",
				slog.String("job", jobName),
				slog.Any("panic", r))
		}

		s.processingMutex.Lock()
		s.isProcessing = false
		s.processingMutex.Unlock()
	}()

	if err := jobFunc(); err != nil {
		s.logger.Error("Background job failed",
			slog.String("job", jobName),
			slog.Any("error", err))
	}
}
