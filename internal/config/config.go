package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "DATADIGEST_CONFIG"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Simulation    SimulationConfig    `yaml:"simulation"`
	Output        OutputConfig        `yaml:"output"`
	Warehouse     WarehouseConfig     `yaml:"warehouse"`
	DocumentStore DocumentStoreConfig `yaml:"documentStore"`
	Transform     TransformConfig     `yaml:"transform"`
	Notifications NotificationConfig  `yaml:"notifications"`
	HTTP          HTTPConfig          `yaml:"http"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Sites         []SiteConfig        `yaml:"sites"`
}

// LoggingConfig sets the slog level ("debug", "info", "warn", "error") and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the pipeline should run in serve mode.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SimulationConfig seeds the engine; 0 draws a fresh random seed per run.
type SimulationConfig struct {
	Seed int64 `yaml:"seed"`
}

// OutputConfig controls the exported files.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// WarehouseConfig points at the SQLite warehouse; an empty path disables loading.
type WarehouseConfig struct {
	Path string `yaml:"path"`
}

// DocumentStoreConfig points at MongoDB; an empty URI disables the sink.
type DocumentStoreConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// TransformConfig runs the SQL-modeling tool after loading; an empty command disables it.
type TransformConfig struct {
	Command    string   `yaml:"command"`
	ProjectDir string   `yaml:"projectDir"`
	Steps      []string `yaml:"steps"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// HTTPConfig sets the serve-mode listen address.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// SiteConfig describes a single site with its scanner strategy.
type SiteConfig struct {
	Name       string            `yaml:"name"`
	Scanner    string            `yaml:"scanner"`
	Categories []CategoryConfig  `yaml:"categories"`
	Options    map[string]string `yaml:"options"`
}

// CategoryConfig holds the concrete endpoints to read (feed URLs or file paths).
type CategoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// envOverrides lists the variables that win over the file; unset ones stay nil.
type envOverrides struct {
	Seed          *int64  `env:"DATADIGEST_SEED"`
	OutputDir     *string `env:"DATADIGEST_OUTPUT_DIR"`
	WarehousePath *string `env:"DATADIGEST_WAREHOUSE_PATH"`
	MongoURI      *string `env:"DATADIGEST_MONGO_URI"`
	LogLevel      *string `env:"DATADIGEST_LOG_LEVEL"`
	HTTPAddr      *string `env:"DATADIGEST_HTTP_ADDR"`
	OTelEndpoint  *string `env:"DATADIGEST_OTEL_ENDPOINT"`
	TelegramToken *string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChat  *string `env:"TELEGRAM_CHAT_ID"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		log.Printf("config: %v (environment overrides ignored)", err)
	}
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	if o.Seed != nil {
		c.Simulation.Seed = *o.Seed
	}
	setString(&c.Output.Dir, o.OutputDir)
	setString(&c.Warehouse.Path, o.WarehousePath)
	setString(&c.DocumentStore.URI, o.MongoURI)
	setString(&c.Logging.Level, o.LogLevel)
	setString(&c.HTTP.Addr, o.HTTPAddr)
	setString(&c.Telemetry.Endpoint, o.OTelEndpoint)
	setString(&c.Notifications.Telegram.BotToken, o.TelegramToken)
	setString(&c.Notifications.Telegram.ChatID, o.TelegramChat)

	return nil
}

// setString assigns a set variable, including an explicitly empty one,
// so "DATADIGEST_WAREHOUSE_PATH=" disables the warehouse.
func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Simulation.Seed != 0 {
		base.Simulation.Seed = override.Simulation.Seed
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if len(override.Output.Formats) > 0 {
		base.Output.Formats = override.Output.Formats
	}

	if override.Warehouse.Path != "" {
		base.Warehouse.Path = override.Warehouse.Path
	}

	if override.DocumentStore.URI != "" {
		base.DocumentStore.URI = override.DocumentStore.URI
	}
	if override.DocumentStore.Database != "" {
		base.DocumentStore.Database = override.DocumentStore.Database
	}

	if override.Transform.Command != "" {
		base.Transform.Command = override.Transform.Command
	}
	if override.Transform.ProjectDir != "" {
		base.Transform.ProjectDir = override.Transform.ProjectDir
	}
	if len(override.Transform.Steps) > 0 {
		base.Transform.Steps = override.Transform.Steps
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}

	if override.Telemetry.Endpoint != "" {
		base.Telemetry.Endpoint = override.Telemetry.Endpoint
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:       LoggingConfig{Level: "info", Format: "text"},
		Scheduler:     SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Output:        OutputConfig{Dir: "data/raw", Formats: []string{"csv", "json"}},
		Warehouse:     WarehouseConfig{Path: "data/warehouse.db"},
		DocumentStore: DocumentStoreConfig{Database: "datadigest"},
		Transform: TransformConfig{
			ProjectDir: "dbt",
			Steps:      []string{"run", "test", "docs generate"},
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Sites: []SiteConfig{
			{
				Name:    "medium",
				Scanner: "rss",
				Categories: []CategoryConfig{
					{Name: "towardsdatascience", URL: "https://towardsdatascience.com/feed"},
					{Name: "hackernoon", URL: "https://hackernoon.com/feed"},
					{Name: "freecodecamp", URL: "https://www.freecodecamp.org/news/rss/"},
					{Name: "better-programming", URL: "https://betterprogramming.pub/feed"},
					{Name: "the-startup", URL: "https://medium.com/swlh/feed"},
				},
			},
		},
	}
}
