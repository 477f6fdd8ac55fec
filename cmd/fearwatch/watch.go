package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newthinker/fearwatch/internal/dashboard"
	"github.com/newthinker/fearwatch/internal/format"
	"github.com/newthinker/fearwatch/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchEndpoint string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the quote gateway into a terminal dashboard",
	Long: `Poll the quote gateway on a schedule and redraw the dashboard on every
change. Send SIGUSR1 to trigger a manual refresh.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchEndpoint, "endpoint", "", "gateway URL (overrides dashboard.endpoint)")
	rootCmd.AddCommand(watchCmd)
}

const clearScreen = "\033[H\033[2J"

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if watchEndpoint != "" {
		cfg.Dashboard.Endpoint = watchEndpoint
	}

	// Log lines would tear the redrawn screen, so they go to a file or nowhere.
	log := zap.NewNop()
	if cfg.Log.File != "" {
		log, err = logger.New(debug, logger.WithLevel(cfg.Log.Level), logger.WithOutput(cfg.Log.File))
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
	}
	defer log.Sync()

	f, err := format.New(cfg.Format.Locale)
	if err != nil {
		return fmt.Errorf("creating formatter: %w", err)
	}

	sched := dashboard.NewCronScheduler(log)
	defer sched.Stop()

	client := dashboard.NewClient(cfg.Dashboard.Endpoint, nil, cfg.Dashboard.RequestTimeout)
	poller := dashboard.NewPoller(dashboard.PollerConfig{
		RefreshInterval: cfg.Dashboard.RefreshInterval,
		ClockInterval:   cfg.Dashboard.ClockInterval,
		RequestTimeout:  cfg.Dashboard.RequestTimeout,
	}, client, sched, log)
	defer poller.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	states := poller.Subscribe()
	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		for s := range states {
			fmt.Fprint(out, clearScreen+dashboard.Render(dashboard.Derive(s), s, f))
		}
	}()

	log.Info("watching gateway", zap.String("endpoint", cfg.Dashboard.Endpoint))
	if err := poller.Initialize(ctx); err != nil {
		return fmt.Errorf("starting poller: %w", err)
	}

	manual := make(chan os.Signal, 1)
	if len(refreshSignals) > 0 {
		signal.Notify(manual, refreshSignals...)
		defer signal.Stop(manual)
	}

	for {
		select {
		case <-ctx.Done():
			poller.Close()
			<-drawn
			return nil
		case <-manual:
			go poller.Refresh(ctx)
		}
	}
}
