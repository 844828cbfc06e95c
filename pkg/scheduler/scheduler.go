package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
)

//go:generate moq -out mocks/ingester.go -pkg mocks -skip-ensure -fmt goimports . Ingester

// Ingester runs one ingestion
type Ingester interface {
	Ingest(ctx context.Context) (domain.IngestResult, error)
}

// Config holds scheduler configuration
type Config struct {
	Cron       string // standard 5-field cron expression or descriptor like @hourly
	RunOnStart bool
}

// Scheduler triggers ingestion on a cron schedule
type Scheduler struct {
	ingester   Ingester
	spec       string
	runOnStart bool
	cron       *cron.Cron
	wg         sync.WaitGroup
}

// NewScheduler creates a scheduler, the cron expression is validated here
func NewScheduler(ingester Ingester, cfg Config) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", cfg.Cron, err)
	}

	return &Scheduler{
		ingester:   ingester,
		spec:       cfg.Cron,
		runOnStart: cfg.RunOnStart,
		cron:       cron.New(cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
	}, nil
}

// Run starts the schedule and blocks until ctx is canceled and the running ingestion, if any, is done
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.ingest(ctx, "scheduled") }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ingest(ctx, "startup")
		}()
	}

	s.cron.Start()
	lgr.Printf("[INFO] scheduler started with cron expression %q", s.spec)

	<-ctx.Done()
	lgr.Printf("[INFO] stopping scheduler...")
	<-s.cron.Stop().Done()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
	return nil
}

func (s *Scheduler) ingest(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	lgr.Printf("[INFO] %s ingestion triggered", trigger)
	res, err := s.ingester.Ingest(ctx)
	if err != nil {
		lgr.Printf("[WARN] %s ingestion failed: %v", trigger, err)
		return
	}
	lgr.Printf("[INFO] %s ingestion done, %d new articles", trigger, res.Ingested)
}

// cronLogger reports cron internals through lgr
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	lgr.Printf("[DEBUG] cron %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	lgr.Printf("[ERROR] cron %s: %v %v", msg, err, keysAndValues)
}
