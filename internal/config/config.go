package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DB     DBConfig
	Import ImportConfig
	Email  EmailConfig
	Log    LogConfig
}

// DBConfig holds SQLite settings.
type DBConfig struct {
	Path    string `mapstructure:"path"`
	MaxOpen int    `mapstructure:"max_open"`
	MaxIdle int    `mapstructure:"max_idle"`
}

// ImportConfig holds bulk-import pipeline settings.
type ImportConfig struct {
	// Threshold is the default fuzzy header-match acceptance score (0-100).
	Threshold int `mapstructure:"threshold"`
	// ModelPath is where the trained imputer artifact lives. A missing
	// artifact means "no model available", never an error.
	ModelPath string `mapstructure:"model_path"`
	// MappingStorePath overrides the reusable header-mapping config
	// location. Empty means the repo-root/home-dotfile default.
	MappingStorePath string `mapstructure:"mapping_store_path"`
	// MaxErrors bounds the error sample reported in an import summary.
	MaxErrors int `mapstructure:"max_errors"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the HRDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".hrdesk")

	// DB defaults (SQLite is a single-writer store, keep the pool tiny)
	v.SetDefault("db.path", filepath.Join(dataDir, "hrdesk.db"))
	v.SetDefault("db.max_open", 1)
	v.SetDefault("db.max_idle", 1)

	// Import defaults
	v.SetDefault("import.threshold", 80)
	v.SetDefault("import.model_path", filepath.Join(dataDir, "imputer_model.json"))
	v.SetDefault("import.mapping_store_path", "")
	v.SetDefault("import.max_errors", 10)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.host", "localhost")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_address", "noreply@hrdesk.local")
	v.SetDefault("email.from_name", "HRDesk")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"db.path":                   "HRDESK_DB_PATH",
		"db.max_open":               "HRDESK_DB_MAX_OPEN",
		"db.max_idle":               "HRDESK_DB_MAX_IDLE",
		"import.threshold":          "HRDESK_IMPORT_THRESHOLD",
		"import.model_path":         "HRDESK_IMPORT_MODEL_PATH",
		"import.mapping_store_path": "HRDESK_IMPORT_MAPPING_STORE_PATH",
		"import.max_errors":         "HRDESK_IMPORT_MAX_ERRORS",
		"email.provider":            "HRDESK_EMAIL_PROVIDER",
		"email.host":                "HRDESK_EMAIL_HOST",
		"email.port":                "HRDESK_EMAIL_PORT",
		"email.username":            "HRDESK_EMAIL_USERNAME",
		"email.password":            "HRDESK_EMAIL_PASSWORD",
		"email.from_address":        "HRDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":           "HRDESK_EMAIL_FROM_NAME",
		"log.level":                 "HRDESK_LOG_LEVEL",
		"log.format":                "HRDESK_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.DB = DBConfig{
		Path:    v.GetString("db.path"),
		MaxOpen: v.GetInt("db.max_open"),
		MaxIdle: v.GetInt("db.max_idle"),
	}
	cfg.Import = ImportConfig{
		Threshold:        v.GetInt("import.threshold"),
		ModelPath:        v.GetString("import.model_path"),
		MappingStorePath: v.GetString("import.mapping_store_path"),
		MaxErrors:        v.GetInt("import.max_errors"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Host:        v.GetString("email.host"),
		Port:        v.GetInt("email.port"),
		Username:    v.GetString("email.username"),
		Password:    v.GetString("email.password"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	return cfg, nil
}
