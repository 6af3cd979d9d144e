package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Transfer TransferConfig `yaml:"transfer"`
	Intake   IntakeConfig   `yaml:"intake"`
	Stats    StatsConfig    `yaml:"stats"`
}

type ServerConfig struct {
	Port             int    `yaml:"port"`
	NotifySocket     string `yaml:"notifySocket,omitempty"`
	UseNotifySocket  bool   `yaml:"useNotifySocket"`
	NotifyRatePerSec int    `yaml:"notifyRatePerSec"` // progress notifications per second, 0 = unlimited
}

// TransferConfig holds the timing knobs of the batch controller and simulator.
type TransferConfig struct {
	StaggerMs             int  `yaml:"staggerMs"`
	SettleMs              int  `yaml:"settleMs"`
	MinDurationMs         int  `yaml:"minDurationMs"`
	MaxDurationMs         int  `yaml:"maxDurationMs"`
	MaxIncrement          int  `yaml:"maxIncrement"`
	KeepSelectionOnCancel bool `yaml:"keepSelectionOnCancel"`
}

type IntakeConfig struct {
	WatchDir string   `yaml:"watchDir,omitempty"`
	Ignore   []string `yaml:"ignore,omitempty"` // glob patterns matched against the base name
}

type StatsConfig struct {
	RecentLimit      int `yaml:"recentLimit"`
	ResultTTLSeconds int `yaml:"resultTTLSeconds"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log           string
	UseConfigPath string
	UsePort       int
	UseWatchDir   string
	SkipNotify    bool // if true, skip unix socket notify.
	KeepOnCancel  bool
}
