package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Session  SessionConfig  `mapstructure:"session"`
	Trial    TrialConfig    `mapstructure:"trial"`
	Reward   RewardConfig   `mapstructure:"reward"`
}

// ServerConfig holds settings for the monitor API.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SessionConfig identifies the subject and shapes the session loop.
type SessionConfig struct {
	Subject        string `mapstructure:"subject"`
	Blocks         int    `mapstructure:"blocks"`
	TrialsPerBlock int    `mapstructure:"trials_per_block"`
	ConditionIndex int    `mapstructure:"condition_index"`
	TrialTypeFlags int    `mapstructure:"trial_type_flags"`
	Seed           int64  `mapstructure:"seed"`
	ReplayFile     string `mapstructure:"replay_file"`
}

// TrialConfig holds the per-trial gating parameters. The trial core reads
// these once at trial start and never mutates them.
type TrialConfig struct {
	InitPeriodMs     int     `mapstructure:"init_period_ms"`
	HoldPeriodMs     int     `mapstructure:"hold_period_ms"`
	FixPeriodMs      int     `mapstructure:"fix_period_ms"`
	SampleIntervalMs int     `mapstructure:"sample_interval_ms"`
	HoldX            float64 `mapstructure:"hold_x"`
	HoldY            float64 `mapstructure:"hold_y"`
	HoldRadius       float64 `mapstructure:"hold_radius"`
	FixRadius        float64 `mapstructure:"fix_radius"`
	Randomize        bool    `mapstructure:"randomize"`
	PointsFile       string  `mapstructure:"points_file"`
}

// RewardConfig holds the consequence policy for terminal outcomes.
type RewardConfig struct {
	VolumeMs       int `mapstructure:"volume_ms"`
	Line           int `mapstructure:"line"`
	Repetitions    int `mapstructure:"repetitions"`
	GapMs          int `mapstructure:"gap_ms"`
	GoodPauseMs    int `mapstructure:"good_pause_ms"`
	BadPauseMs     int `mapstructure:"bad_pause_ms"`
	NeutralPauseMs int `mapstructure:"neutral_pause_ms"`
	GoodCue        int `mapstructure:"good_cue"`
	BadCue         int `mapstructure:"bad_cue"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Monitor API defaults
	v.SetDefault("server.port", "5060")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "fixcal-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Session defaults
	v.SetDefault("session.blocks", 1)
	v.SetDefault("session.trials_per_block", 20)
	v.SetDefault("session.condition_index", 1)
	v.SetDefault("session.trial_type_flags", 0)
	v.SetDefault("session.seed", 0) // 0 = seed from wall clock

	// Trial defaults, all durations in milliseconds
	v.SetDefault("trial.init_period_ms", 5000)
	v.SetDefault("trial.hold_period_ms", 3000)
	v.SetDefault("trial.fix_period_ms", 500)
	v.SetDefault("trial.sample_interval_ms", 2)
	v.SetDefault("trial.hold_x", 0.0)
	v.SetDefault("trial.hold_y", -10.0)
	v.SetDefault("trial.hold_radius", 3.0)
	v.SetDefault("trial.fix_radius", 2.5)
	v.SetDefault("trial.randomize", true)
	v.SetDefault("trial.points_file", "config/points.yaml")

	// Reward defaults
	v.SetDefault("reward.volume_ms", 80)
	v.SetDefault("reward.line", 1)
	v.SetDefault("reward.repetitions", 2)
	v.SetDefault("reward.gap_ms", 150)
	v.SetDefault("reward.good_pause_ms", 1500)
	v.SetDefault("reward.bad_pause_ms", 2500)
	v.SetDefault("reward.neutral_pause_ms", 500)
	v.SetDefault("reward.good_cue", 1)
	v.SetDefault("reward.bad_cue", 2)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("FIXCAL") // e.g., FIXCAL_SESSION_SUBJECT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading. A running
	// trial keeps the snapshot it read at trial start; reloads take effect
	// from the next trial.
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
