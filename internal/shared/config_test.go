package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "listsync.db" {
			t.Errorf("expected database path listsync.db, got %s", config.Database.Path)
		}

		if config.Sources.Netease.APIURL != "http://localhost:3000" {
			t.Errorf("expected netease api_url http://localhost:3000, got %s", config.Sources.Netease.APIURL)
		}

		if !config.Sync.ExactMatch {
			t.Error("expected exact_match enabled by default")
		}

		if config.Charts.Top != 10 {
			t.Errorf("expected charts top 10, got %d", config.Charts.Top)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[sources.qq]
cookie = "uin=12345"

[sources.netease]
api_url = "http://localhost:9090"
username = "user@example.com"
password = "secret"

[backends.emby]
host = "http://emby.local:8096"
api_key = "test_key"
user = "admin"
users = ["alice", "bob"]

[backends.plex]
host = "http://plex.local:32400"
token = "test_token"
section_id = 3

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[sync]
exact_match = false
search_rate = 2.5

[[sync.mappings]]
source = "qq"
playlist_id = "7000000"
target = "Favorites"
principals = ["alice"]

[charts]
platform = 3
series_types = [0, 1, 2]
top = 5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Backends.Emby.APIKey != "test_key" || len(config.Backends.Emby.Users) != 2 {
			t.Errorf("unexpected emby config: %+v", config.Backends.Emby)
		}

		if config.Sync.ExactMatch {
			t.Error("expected exact_match disabled")
		}

		if len(config.Sync.Mappings) != 1 || config.Sync.Mappings[0].Target != "Favorites" {
			t.Errorf("unexpected mappings: %+v", config.Sync.Mappings)
		}

		if config.Charts.Platform != 3 || len(config.Charts.SeriesTypes) != 3 {
			t.Errorf("unexpected charts config: %+v", config.Charts)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		t.Setenv("LISTSYNC_EMBY_API_KEY", "env_key")
		t.Setenv("LISTSYNC_QQ_COOKIE", "env_cookie")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Backends.Emby.APIKey != "env_key" {
			t.Errorf("expected env override for emby api key, got %q", config.Backends.Emby.APIKey)
		}
		if config.Sources.QQ.Cookie != "env_cookie" {
			t.Errorf("expected env override for qq cookie, got %q", config.Sources.QQ.Cookie)
		}
	})
}
