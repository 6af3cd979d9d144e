package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/moyoez/dropvault-go/api"
	"github.com/moyoez/dropvault-go/api/notifyhub"
	"github.com/moyoez/dropvault-go/intake"
	"github.com/moyoez/dropvault-go/notify"
	"github.com/moyoez/dropvault-go/tool"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local control server",
		Long:  "Run the HTTP control server. Files can be added through the API or by dropping them into the watched folder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
	cmd.Flags().IntVar(&flags.UsePort, "port", 0, "control server port (overrides config)")
	cmd.Flags().StringVar(&flags.UseWatchDir, "watch", "", "folder whose new files are added to the selection")
	cmd.Flags().BoolVar(&flags.SkipNotify, "skip-notify", false, "do not send notifications to the unix socket")
	return cmd
}

func runServe(ctx context.Context) error {
	hub := notifyhub.New()
	dispatcher := notify.NewDispatcher(notify.DispatcherOptions{
		Broadcasters: []notify.Broadcaster{hub},
		Socket:       newSocketSender(appCfg),
		ProgressRate: float64(appCfg.Server.NotifyRatePerSec),
	})
	defer dispatcher.Close()

	stats := newStats(appCfg, dispatcher)
	ctrl := newController(appCfg, stats, dispatcher, dispatcher)
	defer ctrl.Close()

	if dir := appCfg.Intake.WatchDir; dir != "" {
		watcher, err := intake.NewWatcher(dir, ctrl, intake.Options{Ignore: appCfg.Intake.Ignore})
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	server := api.NewServer(appCfg.Server.Port, ctrl, stats, hub)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			tool.DefaultLogger.Errorf("API server startup failed: %v", err)
		}
		return err
	case <-ctx.Done():
	}

	// a running batch is voided by ctrl.Close, it is never reported
	tool.DefaultLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
