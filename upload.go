package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moyoez/dropvault-go/progress"
	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <paths...>",
		Short: "Upload files as one batch with terminal progress",
		Long:  "Upload the given files as one batch and show per-file progress. Ctrl+C cancels the batch.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runUpload(ctx, args)
		},
	}
}

func runUpload(ctx context.Context, paths []string) error {
	handles, err := tool.FileHandlesFromPaths(paths)
	if err != nil {
		return err
	}

	ui := progress.New(os.Stderr)
	notifier := transfer.NotifierFunc(func(n *types.Notification) {
		tool.DefaultLogger.Info(n.Message)
	})
	stats := newStats(appCfg, notifier)

	done := make(chan types.BatchResult, 1)
	reporter := transfer.ReporterFunc(func(result types.BatchResult) {
		stats.Report(result)
		done <- result
	})
	ctrl := newController(appCfg, reporter, notifier, ui)
	defer ctrl.Close()

	if _, err := ctrl.AddFiles(handles...); err != nil {
		return err
	}
	if _, err := ctrl.Start(); err != nil {
		return err
	}

	select {
	case result := <-done:
		ui.Wait()
		snap := stats.Snapshot()
		tool.DefaultLogger.Infof("Uploaded %d files, %s in total", snap.TotalFiles, snap.TotalSizeStr)
		if n := len(result.Failed); n > 0 {
			return fmt.Errorf("%d of %d files failed", n, n+len(result.Files))
		}
		return nil
	case <-ctx.Done():
		if err := ctrl.Cancel(); err != nil {
			// the batch finished while the signal arrived
			tool.DefaultLogger.Debugf("Cancel: %v", err)
		}
		ui.Wait()
		return ctx.Err()
	}
}
