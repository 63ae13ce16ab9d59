package config

import (
	"os"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/keyring"
)

// clearEnv unsets the habitlens variables for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{constants.EnvDatabase, constants.EnvTimezone, constants.EnvDebug} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadGeneratesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "habitlens", "config.toml")

	m := NewManager()
	cfg, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database != filepath.Join(filepath.Dir(path), constants.DefaultDBFile) {
		t.Errorf("unexpected default database %s", cfg.Database)
	}
	if cfg.Timezone != constants.DefaultTimezone || cfg.Debug {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be written: %v", err)
	}
	if m.ConfigDir() != filepath.Dir(path) {
		t.Errorf("unexpected config dir %s", m.ConfigDir())
	}
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "database = \"/data/habits.db\"\ntimezone = \"Europe/Berlin\"\ndebug = true\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewManager().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/data/habits.db" || cfg.Timezone != "Europe/Berlin" || !cfg.Debug {
		t.Errorf("file values not applied: %+v", cfg)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Errorf("unexpected location %v, %v", loc, err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("database = \"/file.db\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HABITLENS_TIMEZONE=Asia/Tokyo\nHABITLENS_DB=/dotenv.db\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvDatabase, "/env.db")
	t.Setenv(constants.EnvDebug, "true")

	cfg, err := NewManager().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/env.db" {
		t.Errorf("expected real environment to beat .env, got %s", cfg.Database)
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("expected .env timezone, got %s", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("expected debug from environment")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"bad toml":     "database = ",
		"bad timezone": "database = \"/x.db\"\ntimezone = \"Mars/Olympus\"\n",
		"empty db":     "database = \"\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := NewManager().Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("bad debug env", func(t *testing.T) {
		t.Setenv(constants.EnvDebug, "sometimes")
		if _, err := NewManager().Load(filepath.Join(t.TempDir(), "config.toml")); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestResolveDatabase(t *testing.T) {
	gokeyring.MockInit()

	cfg := &Config{Database: "/tmp/h.db"}
	target, trusted, err := cfg.ResolveDatabase()
	if err != nil || target != "/tmp/h.db" || trusted {
		t.Errorf("unexpected file resolution %q %v %v", target, trusted, err)
	}

	cfg.Database = KeyringDatabase
	if _, _, err := cfg.ResolveDatabase(); err == nil {
		t.Error("expected error with empty keyring")
	}

	const connStr = "postgres://me:pw@db/habits"
	if err := keyring.SetConnectionString(connStr); err != nil {
		t.Fatal(err)
	}
	target, trusted, err = cfg.ResolveDatabase()
	if err != nil || target != connStr || !trusted {
		t.Errorf("unexpected keyring resolution %q %v %v", target, trusted, err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/habits/db")
	if err != nil || got != filepath.Join(home, "habits", "db") {
		t.Errorf("unexpected expansion %q, %v", got, err)
	}
	if got, _ := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
