package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/config"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/content"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/feed"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/ingest"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/lock"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/repository"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/scheduler"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/summarizer"
	"github.com/AdwitiyaKhare/trendboard-ai/server"
)

// Opts with all CLI options
type Opts struct {
	Config      string `short:"c" long:"config" env:"CONFIG" description:"configuration file (optional)"`
	Port        string `short:"p" long:"port" env:"PORT" description:"listen port, overrides server.listen"`
	FrontendURL string `long:"frontend-url" env:"FRONTEND_URL" description:"dashboard origin allowed by CORS"`
	HFToken     string `long:"hf-token" env:"HUGGINGFACE_API_TOKEN" description:"summarization API token"`
	StoreDSN    string `long:"store" env:"STORE_DSN" description:"sqlite file DSN or postgres:// URL"`
	RedisAddr   string `long:"redis" env:"REDIS_ADDR" description:"redis address for the ingestion lock"`
	Schedule    string `long:"schedule" env:"SCHEDULE" description:"cron expression for periodic ingestion"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	_ = godotenv.Load() // .env is optional, real environment wins

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug, secrets(opts)...)

	log.Printf("[INFO] starting trendboard version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		cancel()
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Store.DSN,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to open article store: %w", err)
	}
	articles := repository.NewArticleRepository(db)
	defer func() {
		if err := articles.Close(); err != nil {
			log.Printf("[WARN] failed to close article store: %v", err)
		}
	}()
	log.Printf("[INFO] article store %s ready", repository.DriverName(cfg.Store.DSN))

	params := ingest.Params{
		Fetcher:         feed.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		Summarizer:      summarizer.New(cfg.Summarizer),
		Store:           articles,
		Sources:         cfg.FeedSources(),
		MaxContentChars: cfg.Fetch.MaxContentChars,
	}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Fetch.UserAgent)
	}
	if cfg.Redis.Addr != "" {
		locker, err := lock.NewRedisLock(ctx, lock.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.LockTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		params.Locker = locker
		log.Printf("[INFO] ingestion lock on redis %s", cfg.Redis.Addr)
	}
	ingester := ingest.New(params)

	var sched *scheduler.Scheduler
	if cfg.Schedule.Cron != "" {
		if sched, err = scheduler.NewScheduler(ingester, scheduler.Config{
			Cron:       cfg.Schedule.Cron,
			RunOnStart: cfg.Schedule.RunOnStart,
		}); err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		log.Printf("[INFO] scheduled ingestion %q", cfg.Schedule.Cron)
	}

	srv := server.New(cfg, ingester, articles, revision, opts.Debug)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}

	return g.Wait()
}

// loadConfig reads the optional config file and applies CLI and environment overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.Port != "" {
		cfg.Server.Listen = ":" + strings.TrimPrefix(opts.Port, ":")
	}
	if opts.FrontendURL != "" {
		cfg.Server.FrontendURL = opts.FrontendURL
	}
	if opts.HFToken != "" {
		cfg.Summarizer.APIToken = opts.HFToken
	}
	if opts.StoreDSN != "" {
		cfg.Store.DSN = opts.StoreDSN
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}
	if opts.Schedule != "" {
		cfg.Schedule.Cron = opts.Schedule
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// secrets returns values that must never appear in logs
func secrets(opts Opts) []string {
	var res []string
	if opts.HFToken != "" {
		res = append(res, opts.HFToken)
	}
	if u, err := url.Parse(opts.StoreDSN); err == nil && u.User != nil {
		if pass, ok := u.User.Password(); ok && pass != "" {
			res = append(res, pass)
		}
	}
	return res
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
