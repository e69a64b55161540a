package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	if cfg.Scheduler.CronExpression != "0 6 * * *" || cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected scheduler defaults: %+v", cfg.Scheduler)
	}
	if len(cfg.Sites) != 1 || len(cfg.Sites[0].Categories) != 5 || cfg.Sites[0].Scanner != "rss" {
		t.Fatalf("unexpected default sites: %+v", cfg.Sites)
	}
	if strings.Join(cfg.Output.Formats, ",") != "csv,json" {
		t.Fatalf("unexpected formats: %v", cfg.Output.Formats)
	}
	if cfg.Notifications.Telegram.Enabled() {
		t.Fatal("telegram must be disabled without credentials")
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
scheduler:
  cronExpression: "15 7 * * *"
  timezone: Europe/Berlin
simulation:
  seed: 42
output:
  dir: /tmp/out
  formats: [json]
transform:
  command: dbt
sites:
  - name: archive
    scanner: file
    options:
      path: data/articles.json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv("DATADIGEST_SEED", "7")
	t.Setenv("DATADIGEST_WAREHOUSE_PATH", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %s", cfg.Logging.Level)
	}
	if cfg.Simulation.Seed != 7 {
		t.Fatalf("expected env seed to win, got %d", cfg.Simulation.Seed)
	}
	if cfg.Output.Dir != "/tmp/out" || strings.Join(cfg.Output.Formats, ",") != "json" {
		t.Fatalf("unexpected output: %+v", cfg.Output)
	}
	if cfg.Warehouse.Path != "" {
		t.Fatalf("expected empty env var to disable warehouse, got %q", cfg.Warehouse.Path)
	}
	if cfg.Transform.Command != "dbt" || cfg.Transform.ProjectDir != "dbt" || len(cfg.Transform.Steps) != 3 {
		t.Fatalf("unexpected transform: %+v", cfg.Transform)
	}
	if !cfg.Notifications.Telegram.Enabled() {
		t.Fatal("expected telegram credentials from env")
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Options["path"] != "data/articles.json" {
		t.Fatalf("unexpected sites: %+v", cfg.Sites)
	}
	if cfg.Scheduler.CronExpression != "15 7 * * *" {
		t.Fatalf("unexpected cron %s", cfg.Scheduler.CronExpression)
	}
}

func TestLoadFallsBackOnBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("sites: [::"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv("DATADIGEST_SEED", "not-a-number")

	cfg := Load()

	if cfg.Simulation.Seed != 0 || len(cfg.Sites) != 1 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestBindTimezoneRevertsUnknown(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Scheduler.Timezone = "Mars/Olympus"
	cfg.bindTimezone()

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", cfg.Scheduler.Location())
	}
}
