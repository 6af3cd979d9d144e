package tool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/dropvault-go/types"
)

var ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Server: types.ServerConfig{
			Port:             53318,
			NotifySocket:     "/tmp/dropvault-notify.sock",
			UseNotifySocket:  false,
			NotifyRatePerSec: 20,
		},
		Transfer: types.TransferConfig{
			StaggerMs:     300,
			SettleMs:      500,
			MinDurationMs: 500,
			MaxDurationMs: 1500,
			MaxIncrement:  10,
		},
		Intake: types.IntakeConfig{
			Ignore: []string{".*", "*.tmp", "*.part", "*~"},
		},
		Stats: types.StatsConfig{
			RecentLimit:      5,
			ResultTTLSeconds: 3600,
		},
	}
}

// LoadConfig reads the YAML config at path, creating it with defaults when it
// does not exist. Zero values in the file fall back to the defaults.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *types.AppConfig) {
	def := DefaultConfig()
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.NotifySocket == "" {
		cfg.Server.NotifySocket = def.Server.NotifySocket
	}
	if cfg.Transfer.StaggerMs < 0 {
		cfg.Transfer.StaggerMs = def.Transfer.StaggerMs
	}
	if cfg.Transfer.SettleMs < 0 {
		cfg.Transfer.SettleMs = def.Transfer.SettleMs
	}
	if cfg.Transfer.MinDurationMs <= 0 {
		cfg.Transfer.MinDurationMs = def.Transfer.MinDurationMs
	}
	if cfg.Transfer.MaxDurationMs <= cfg.Transfer.MinDurationMs {
		cfg.Transfer.MaxDurationMs = cfg.Transfer.MinDurationMs + (def.Transfer.MaxDurationMs - def.Transfer.MinDurationMs)
	}
	if cfg.Transfer.MaxIncrement <= 0 {
		cfg.Transfer.MaxIncrement = def.Transfer.MaxIncrement
	}
	if cfg.Stats.RecentLimit <= 0 {
		cfg.Stats.RecentLimit = def.Stats.RecentLimit
	}
	if cfg.Stats.ResultTTLSeconds <= 0 {
		cfg.Stats.ResultTTLSeconds = def.Stats.ResultTTLSeconds
	}
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Millis converts a config millisecond value to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
