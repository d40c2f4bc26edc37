package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAssignmentSchedule fires every Monday at midnight
	DefaultAssignmentSchedule = "FREQ=WEEKLY;BYDAY=MO;BYHOUR=0;BYMINUTE=0;BYSECOND=0"
	DefaultTimezone           = "Europe/Madrid"
	DefaultLogDir             = "logs"
	DefaultMQTTTopicPrefix    = "charger/plan"

	// DatabaseURLEnv overrides databaseURL from the config file
	DatabaseURLEnv = "CHARGER_DATABASE_URL"
)

// GoogleConfig points at the credentials used for the Sheets and Gmail APIs
type GoogleConfig struct {
	// CredentialsFile is a service account or authorized user JSON file
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
	// ImpersonateUser is the mailbox a service account acts as (domain-wide delegation)
	ImpersonateUser string `yaml:"impersonateUser,omitempty" validate:"omitempty,email"`
}

// NotificationsConfig controls the assignment emails sent after each run
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Sender is used as the From header, defaults to the authenticated mailbox
	Sender string `yaml:"sender,omitempty" validate:"omitempty,email"`
}

// PublishingConfig controls where week rotas are published
type PublishingConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
}

// MQTTConfig controls publishing of charger plans to the charger controller
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker,omitempty" validate:"required_if=Enabled true"`
	ClientID    string `yaml:"clientID,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topicPrefix,omitempty"`
	QoS         byte   `yaml:"qos,omitempty" validate:"max=2"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL        string              `yaml:"databaseURL" validate:"required"`
	AssignmentSchedule string              `yaml:"assignmentSchedule,omitempty"`
	Timezone           string              `yaml:"timezone,omitempty"`
	MetricsAddr        string              `yaml:"metricsAddr,omitempty"`
	LogDir             string              `yaml:"logDir,omitempty"`
	Google             GoogleConfig        `yaml:"google,omitempty"`
	Notifications      NotificationsConfig `yaml:"notifications,omitempty"`
	Publishing         PublishingConfig    `yaml:"publishing,omitempty"`
	MQTT               MQTTConfig          `yaml:"mqtt,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from charger_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads charger_config.<env>.yaml, or charger_config.yaml when env is empty.
// A .env file in the current directory is loaded first so its values can override the file.
func LoadWithEnv(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.DatabaseURL = url
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AssignmentSchedule == "" {
		c.AssignmentSchedule = DefaultAssignmentSchedule
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = DefaultMQTTTopicPrefix
	}
}

// Validate validates the configuration struct, the assignment rrule and the time zone
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.AssignmentSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.AssignmentSchedule); err != nil {
			return fmt.Errorf("invalid rrule in assignmentSchedule: %w", err)
		}
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.Notifications.Enabled && cfg.Google.CredentialsFile == "" {
		return fmt.Errorf("notifications are enabled but google.credentialsFile is not set")
	}
	if cfg.Publishing.SpreadsheetID != "" && cfg.Google.CredentialsFile == "" {
		return fmt.Errorf("publishing.spreadsheetID is set but google.credentialsFile is not set")
	}

	return nil
}

// Location returns the configured time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func configFileName(env string) string {
	if env == "" {
		return "charger_config.yaml"
	}
	return fmt.Sprintf("charger_config.%s.yaml", env)
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
