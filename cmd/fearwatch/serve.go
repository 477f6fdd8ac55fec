package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/fearwatch/internal/api"
	"github.com/newthinker/fearwatch/internal/collector"
	"github.com/newthinker/fearwatch/internal/collector/static"
	"github.com/newthinker/fearwatch/internal/collector/yahoo"
	"github.com/newthinker/fearwatch/internal/config"
	"github.com/newthinker/fearwatch/internal/format"
	"github.com/newthinker/fearwatch/internal/gateway"
	"github.com/newthinker/fearwatch/internal/logger"
	"github.com/newthinker/fearwatch/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quote gateway",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if !debug {
		configured, err := newServeLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		_ = log.Sync()
		// The deferred Sync reads log at exit, so it flushes this logger.
		log = configured
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	f, err := format.New(cfg.Format.Locale)
	if err != nil {
		return fmt.Errorf("creating formatter: %w", err)
	}

	var reg *metrics.Registry
	metricsPath := ""
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		metricsPath = cfg.Metrics.Path
	}

	opts := []gateway.Option{gateway.WithFormatter(f)}
	if reg != nil {
		opts = append(opts, gateway.WithMetrics(reg))
	}
	svc := gateway.New(gateway.Config{
		VIXSymbol:    cfg.Symbols.VIX,
		MarketSymbol: cfg.Symbols.Market,
		Threshold:    cfg.Signal.Threshold,
	}, provider, log, opts...)

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		MetricsPath: metricsPath,
	}, api.Dependencies{Gateway: svc, Metrics: reg}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting quote gateway",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", provider.Name()),
		zap.Strings("symbols", svc.Symbols()),
		zap.Float64("threshold", cfg.Signal.Threshold),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down quote gateway")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newServeLogger builds the logger configured by the log section.
func newServeLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(false, logger.WithLevel(cfg.Log.Level), logger.WithOutput(cfg.Log.File))
}

// newProvider builds the configured upstream provider through the registry.
func newProvider(cfg *config.Config) (collector.Provider, error) {
	reg := collector.NewRegistry()
	reg.Register(yahoo.New())
	reg.Register(static.New())

	p, err := reg.MustGet(cfg.Provider.Name)
	if err != nil {
		return nil, err
	}

	pcfg := collector.Config{
		BaseURL: cfg.Provider.BaseURL,
		Extra:   map[string]any{"crumb": cfg.Provider.Crumb},
	}
	if cfg.Provider.Timeout > 0 {
		pcfg.Timeout = cfg.Provider.Timeout.String()
	}
	if err := p.Init(pcfg); err != nil {
		return nil, fmt.Errorf("initializing provider %s: %w", p.Name(), err)
	}
	return p, nil
}
