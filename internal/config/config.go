// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nyaruka/phonenumbers"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultReminderCron  = "*/15 * * * *"
	DefaultReminderHours = 24
	DefaultPhoneRegion   = "US"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type TournamentsConfig struct {
	// DefaultByePolicy applies to tournaments created without an explicit policy.
	DefaultByePolicy string `yaml:"default_bye_policy"`
	// PhoneRegion is the ISO 3166 region used to parse participant phone
	// numbers given without a country code.
	PhoneRegion string `yaml:"phone_region"`
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	FromAddress     string `yaml:"from_address"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

// Enabled reports whether enough is configured to send mail through SES.
func (e EmailConfig) Enabled() bool {
	return e.Region != "" && e.FromAddress != ""
}

// APIConfig throttles writes per client. Zero values fall back to the
// limiter defaults.
type APIConfig struct {
	WritesPerMinute int  `yaml:"writes_per_minute"`
	WriteBurst      int  `yaml:"write_burst"`
	TrustProxy      bool `yaml:"trust_proxy"`
}

type SchedulerConfig struct {
	ReminderCron  string `yaml:"reminder_cron"`
	// ReminderHours is how far ahead of a match reminders go out. Nil means
	// unset; 0 reminds at the scheduled start.
	ReminderHours *int `yaml:"reminder_hours"`
}

// LeadHours returns ReminderHours, or the default when it was never set.
func (s SchedulerConfig) LeadHours() int {
	if s.ReminderHours == nil {
		return DefaultReminderHours
	}
	return *s.ReminderHours
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database    DatabaseConfig    `yaml:"database"`
	API         APIConfig         `yaml:"api"`
	Tournaments TournamentsConfig `yaml:"tournaments"`
	Email       EmailConfig       `yaml:"email"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`

	Features struct {
		EnableReminders bool `yaml:"enable_reminders"`
		EnableDebug     bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.LoadEnv()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadEnv copies secrets from the environment into the config.
func (c *Config) LoadEnv() {
	c.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	c.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	c.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
}

// ApplyDefaults fills optional settings left empty in the YAML file.
func (c *Config) ApplyDefaults() {
	if c.Tournaments.DefaultByePolicy == "" {
		c.Tournaments.DefaultByePolicy = "confirm"
	}
	if c.Tournaments.PhoneRegion == "" {
		c.Tournaments.PhoneRegion = DefaultPhoneRegion
	}
	if c.Scheduler.ReminderCron == "" {
		c.Scheduler.ReminderCron = DefaultReminderCron
	}
	if c.Scheduler.ReminderHours == nil {
		hours := DefaultReminderHours
		c.Scheduler.ReminderHours = &hours
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch strings.ToLower(strings.TrimSpace(c.Tournaments.DefaultByePolicy)) {
	case "confirm", "auto":
	default:
		return fmt.Errorf("unsupported bye policy: %s", c.Tournaments.DefaultByePolicy)
	}

	if !isSupportedRegion(c.Tournaments.PhoneRegion) {
		return fmt.Errorf("unsupported phone region: %s", c.Tournaments.PhoneRegion)
	}

	if c.API.WritesPerMinute < 0 || c.API.WriteBurst < 0 {
		return fmt.Errorf("api write limits must not be negative")
	}

	if _, err := cron.ParseStandard(c.Scheduler.ReminderCron); err != nil {
		return fmt.Errorf("invalid scheduler.reminder_cron %q: %w", c.Scheduler.ReminderCron, err)
	}
	if c.Scheduler.LeadHours() < 0 {
		return fmt.Errorf("scheduler.reminder_hours must not be negative")
	}

	if c.Features.EnableReminders && !c.Email.Enabled() {
		return fmt.Errorf("email region and from_address are required when reminders are enabled")
	}

	return nil
}

func isSupportedRegion(region string) bool {
	return phonenumbers.GetCountryCodeForRegion(strings.ToUpper(strings.TrimSpace(region))) != 0
}
