package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/guessit/internal/api"
	"github.com/shapedtime/guessit/internal/cache"
	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/guess"
	"github.com/shapedtime/guessit/internal/logging"
	"github.com/shapedtime/guessit/internal/metrics"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve guesses over HTTP and reload the configuration on change",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: configFlag, Aliases: []string{"c"}, Value: "./guessit.yaml", Usage: "YAML configuration file"},
			&cli.BoolFlag{Name: verboseFlag, Aliases: []string{"v"}},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	path := c.String(configFlag)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.Bool(verboseFlag) {
		cfg.Log.Debug = true
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logging.Load(cfg.Log)

	log.Info().Str("config", path).Str("version", version).Msg("starting guessit")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	g, err := guess.New(cfg, guess.WithRecorder(metrics.New(reg)))
	if err != nil {
		return err
	}
	reg.MustRegister(metrics.NewRuleCollector(g))

	var store *cache.Store
	if cfg.Cache.Path != "" {
		store, err = cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTL)*time.Second)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info().Str("path", cfg.Cache.Path).Msg("result cache enabled")
	}

	apiServer := api.NewServer(g, store)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: apiServer.Handler(),
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, reg)
		go func() {
			if err := metricsServer.Start(); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, path, func(next *config.Config) {
			if err := apiServer.Configure(next); err != nil {
				log.Error().Err(err).Msg("keeping previous rules")
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("configuration hot reload disabled")
		}
	}()

	go func() {
		log.Info().Int("port", cfg.Server.HTTPPort).Msg("starting REST API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("REST API server error")
			stop()
		}
	}()

	log.Info().Str("api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort)).Msg("guessit is ready")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("REST API server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	log.Info().Msg("guessit stopped")
	return nil
}
