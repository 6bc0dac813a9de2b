package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// DigestRunner produces and distributes the low stock digest.
type DigestRunner interface {
	Run(ctx context.Context) (*models.StockDigest, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	digest  DigestRunner
	cfg     config.ReportingConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler creates a scheduler running jobs in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, digest DigestRunner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		digest:  digest,
		cfg:     cfg,
		timeout: 5 * time.Minute,
		logger:  logger,
	}, nil
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule stock digest %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	s.logger.Info("generating stock digest")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	digest, err := s.digest.Run(ctx)
	if err != nil {
		s.logger.Error("stock digest finished with errors", zap.Error(err))
		return
	}
	s.logger.Info("stock digest sent", zap.Int("low", len(digest.Low)), zap.Int("out", len(digest.Out)))
}
