// SPDX-License-Identifier: MIT

// Command daemon runs the rsvideo console: the admin API, the public player
// surface and the background expiry watcher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rsvideo/console/internal/api"
	"github.com/rsvideo/console/internal/audit"
	"github.com/rsvideo/console/internal/auth"
	"github.com/rsvideo/console/internal/cache"
	"github.com/rsvideo/console/internal/config"
	"github.com/rsvideo/console/internal/expiry"
	"github.com/rsvideo/console/internal/gateway"
	"github.com/rsvideo/console/internal/log"
	"github.com/rsvideo/console/internal/metrics"
	"github.com/rsvideo/console/internal/spool"
	"github.com/rsvideo/console/internal/store"
	"github.com/rsvideo/console/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load(*configPath)

	level := "info"
	if cfgErr == nil {
		level = cfg.LogLevel
	}
	log.Configure(log.Config{
		Level:   level,
		Service: "rsvideo",
		Version: version,
	})
	logger := log.WithComponent("daemon")

	if cfgErr != nil {
		logger.Fatal().
			Err(cfgErr).
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("daemon exited with error")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "rsvideo",
		ServiceVersion: version,
		Environment:    "production",
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   1.0,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	sessions, err := newSessionCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	gw, err := newGateway(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info().Str("mode", cfg.GatewayMode).Msg("persistence gateway ready")

	opts := make([]store.Option, 0, 2)

	var sp *spool.Spool
	if cfg.SpoolDir != "" {
		sp, err = spool.Open(cfg.SpoolDir)
		if err != nil {
			return fmt.Errorf("open pending spool: %w", err)
		}
		defer func() { _ = sp.Close() }()
		opts = append(opts, store.WithSpool(sp))
	} else {
		logger.Warn().Msg("no spool directory configured, failed saves are export-only")
	}

	var trail *audit.Trail
	if cfg.AuditPath != "" {
		trail, err = audit.Open(cfg.AuditPath)
		if err != nil {
			return fmt.Errorf("open audit trail: %w", err)
		}
		defer func() { _ = trail.Close() }()
		opts = append(opts, store.WithAudit(trail))
	}

	st := store.New(gw, opts...)
	if err := st.Load(ctx); err != nil {
		// The store already fell back to an empty list; the console stays up.
		logger.Warn().Err(err).Msg("starting with empty record list")
	}

	am := auth.NewManager(cfg.AdminUser, cfg.AdminPass, cfg.SessionTTL.Std(), sessions)
	apiOpts := []api.Option{api.WithVersion(version)}
	if trail != nil {
		apiOpts = append(apiOpts, api.WithAudit(trail))
	}
	srv := api.New(cfg, st, am, apiOpts...)

	g, ctx := errgroup.WithContext(ctx)

	// Expiry sweeps: log the transition once per record and count it.
	watcher := expiry.NewWatcher(expiry.WithInterval(cfg.ExpiryPollInterval.Std()))
	g.Go(func() error {
		watcher.Run(ctx, st.ExpiryEntries, func(e expiry.Entry) {
			metrics.ExpiryTransitionsTotal.Inc()
			logger.Info().Str("id", e.ID).Str("expiry", e.Expiry).Msg("record expired")
		})
		return nil
	})

	// With a local document file, pick up external edits.
	if fgw, ok := gw.(*gateway.FileGateway); ok {
		g.Go(func() error {
			err := fgw.Watch(ctx, func() {
				if lerr := st.Load(ctx); lerr != nil {
					logger.Warn().Err(lerr).Msg("reload after document change failed")
				} else {
					logger.Info().Int("records", st.Count()).Msg("document reloaded after external change")
				}
			})
			if err != nil {
				logger.Warn().Err(err).Msg("document watch unavailable")
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info().Str("listen", cfg.Listen).Msg("http server starting")
		err := srv.ListenAndServe(ctx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newSessionCache(cfg config.Config) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log.WithComponent("cache"))
	}
	return cache.NewMemoryCache(time.Minute), nil
}

func newGateway(ctx context.Context, cfg config.Config) (gateway.Gateway, error) {
	switch cfg.GatewayMode {
	case config.GatewayHTTP:
		return gateway.NewHTTP(cfg.DocumentURL, cfg.UploadURL), nil
	case config.GatewayFile:
		return gateway.NewFile(cfg.DocumentPath), nil
	case config.GatewayS3:
		return gateway.NewS3(ctx, gateway.S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.GatewayMode)
	}
}
