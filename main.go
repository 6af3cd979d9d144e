package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moyoez/dropvault-go/notify"
	"github.com/moyoez/dropvault-go/share"
	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

var (
	flags  types.Config
	appCfg types.AppConfig
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dropvault",
		Short:         "Select files and upload them as one batch",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			tool.SetLogMode(flags.Log)
			tool.InitLogger()

			cfg, err := tool.LoadConfig(flags.UseConfigPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(&cfg, flags)
			appCfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.UseConfigPath, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&flags.Log, "log", "", "log mode: dev, prod or none")
	rootCmd.PersistentFlags().BoolVar(&flags.KeepOnCancel, "keep-on-cancel", false, "keep the selected files after a cancelled batch")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newUploadCmd())
	return rootCmd
}

// applyFlagOverrides lets command line flags win over the config file.
func applyFlagOverrides(cfg *types.AppConfig, f types.Config) {
	if f.UsePort > 0 {
		cfg.Server.Port = f.UsePort
	}
	if f.UseWatchDir != "" {
		cfg.Intake.WatchDir = f.UseWatchDir
	}
	if f.KeepOnCancel {
		cfg.Transfer.KeepSelectionOnCancel = true
	}
	if f.SkipNotify {
		cfg.Server.UseNotifySocket = false
	}
}

// newController builds a batch controller from the transfer section.
func newController(cfg types.AppConfig, reporter transfer.Reporter, notifier transfer.Notifier, observers ...transfer.Observer) *transfer.Controller {
	timing := transfer.NewRandomTiming(
		tool.Millis(cfg.Transfer.MinDurationMs),
		tool.Millis(cfg.Transfer.MaxDurationMs),
		cfg.Transfer.MaxIncrement,
	)
	return transfer.NewController(transfer.Options{
		Transferer:            transfer.NewSimulator(timing),
		Reporter:              reporter,
		Notifier:              notifier,
		Observers:             observers,
		Stagger:               configDelay(cfg.Transfer.StaggerMs),
		Settle:                configDelay(cfg.Transfer.SettleMs),
		KeepSelectionOnCancel: cfg.Transfer.KeepSelectionOnCancel,
		Logger:                tool.DefaultLogger,
	})
}

// configDelay maps a config value of 0 to no delay at all.
func configDelay(ms int) time.Duration {
	if ms <= 0 {
		return transfer.NoDelay
	}
	return tool.Millis(ms)
}

func newStats(cfg types.AppConfig, notifier transfer.Notifier) *share.Stats {
	return share.NewStats(share.StatsOptions{
		RecentLimit: cfg.Stats.RecentLimit,
		ResultTTL:   tool.Millis(cfg.Stats.ResultTTLSeconds * 1000),
		Notifier:    notifier,
	})
}

func newSocketSender(cfg types.AppConfig) *notify.SocketSender {
	if !cfg.Server.UseNotifySocket {
		return nil
	}
	return notify.NewSocketSender(cfg.Server.NotifySocket)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		tool.DefaultLogger.Errorf("%v", err)
		os.Exit(1)
	}
}
