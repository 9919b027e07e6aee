// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultPlanFile      = "plan.json"
	DefaultBackupDir     = ".claude/plan-view"
	DefaultMaxBackups    = 5
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultDashboardPort = 8321
)

// Config holds the full configuration for pv.
type Config struct {
	// Paths
	PlanFile  string `toml:"plan_file"`
	BackupDir string `toml:"backup_dir"`

	// Compaction
	MaxBackups int `toml:"max_backups"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Dashboard
	DashboardPort int  `toml:"dashboard_port"`
	OpenBrowser   bool `toml:"open_browser"`

	// Derived, not persisted
	ProjectRoot string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.PlanFile = DefaultPlanFile
	cfg.BackupDir = DefaultBackupDir
	cfg.MaxBackups = DefaultMaxBackups
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.DashboardPort = DefaultDashboardPort
	cfg.OpenBrowser = true
}
