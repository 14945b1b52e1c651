package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test,
// equivalent to t.Chdir (which requires Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
db_dsn: "postgres://u:p@localhost:5432/recon?sslmode=disable"
broker:
  base_url: "https://api.example.com"
accounts:
  - id: "ACC-001"
    exchange: "tasty"
recovering_pct: 40
free_pct: 110
`
	if err := os.WriteFile(filepath.Join(dir, "configs", "values_test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("CONFIG_FILE", "values_test.yaml")
	t.Setenv("GROUP_WINDOW", "12h")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.DB != "postgres://u:p@localhost:5432/recon?sslmode=disable" {
		t.Errorf("DB = %q", cfg.DB)
	}
	if cfg.Broker.BaseURL != "https://api.example.com" {
		t.Errorf("Broker.BaseURL = %q", cfg.Broker.BaseURL)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].ID != "ACC-001" {
		t.Errorf("Accounts = %+v", cfg.Accounts)
	}
	if cfg.GroupWindow != 12*time.Hour {
		t.Errorf("GroupWindow = %v, want 12h", cfg.GroupWindow)
	}
	if cfg.RecoveringPct != 40 || cfg.FreePct != 110 {
		t.Errorf("thresholds = %v/%v, want 40/110", cfg.RecoveringPct, cfg.FreePct)
	}
	// env-only default survives yaml decode
	if cfg.DeleteChunkSize != 200 {
		t.Errorf("DeleteChunkSize = %d, want 200", cfg.DeleteChunkSize)
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "values_test.yaml"), []byte("db_dsn: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("CONFIG_FILE", "values_test.yaml")
	t.Setenv("DATABASE_DSN", "from-env")
	t.Setenv("DELETE_CHUNK_SIZE", "50")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.DB != "from-env" {
		t.Errorf("DB = %q, want env override", cfg.DB)
	}
	if cfg.DeleteChunkSize != 50 {
		t.Errorf("DeleteChunkSize = %d, want 50", cfg.DeleteChunkSize)
	}
}
