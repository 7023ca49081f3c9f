package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Sources  SourcesConfig  `toml:"sources"`
	Backends BackendsConfig `toml:"backends"`
	Database DatabaseConfig `toml:"database"`
	Sync     SyncConfig     `toml:"sync"`
	Charts   ChartsConfig   `toml:"charts"`
}

// SourcesConfig contains upstream playlist source settings.
type SourcesConfig struct {
	QQ      QQConfig      `toml:"qq"`
	Netease NeteaseConfig `toml:"netease"`
}

// QQConfig contains QQ Music client settings. The cookie is optional for
// public playlists.
type QQConfig struct {
	Cookie string `toml:"cookie"`
}

// NeteaseConfig contains NetEase Cloud Music API settings.
//
// APIURL points at a NeteaseCloudMusicApi-compatible server. Login is only
// required for private playlists and daily recommendations.
type NeteaseConfig struct {
	APIURL   string `toml:"api_url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// BackendsConfig contains media server settings.
type BackendsConfig struct {
	Emby EmbyConfig `toml:"emby"`
	Plex PlexConfig `toml:"plex"`
}

// EmbyConfig contains Emby server settings. User is the primary principal;
// Users lists additional accounts the playlists fan out to.
type EmbyConfig struct {
	Host   string   `toml:"host"`
	APIKey string   `toml:"api_key"`
	User   string   `toml:"user"`
	Users  []string `toml:"users"`
}

// PlexConfig contains Plex server settings.
type PlexConfig struct {
	Host      string `toml:"host"`
	Token     string `toml:"token"`
	SectionID int    `toml:"section_id"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig contains reconciliation settings and the mapping list.
type SyncConfig struct {
	ExactMatch bool            `toml:"exact_match"`
	SearchRate float64         `toml:"search_rate"`
	Mappings   []MappingConfig `toml:"mappings"`
}

// MappingConfig is one (source playlist, target playlist) sync entry.
type MappingConfig struct {
	Source     string   `toml:"source"`
	PlaylistID string   `toml:"playlist_id"`
	Target     string   `toml:"target"`
	Principals []string `toml:"principals"`
}

// ChartsConfig contains Maoyan dashboard settings.
type ChartsConfig struct {
	Platform    int   `toml:"platform"`
	SeriesTypes []int `toml:"series_types"`
	Top         int   `toml:"top"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory (if present) and process environment
// variables override credential fields, so secrets can stay out of the TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnvOverrides()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides loads .env (ignored when absent) and replaces credential
// fields with LISTSYNC_* variables when set.
func (c *Config) applyEnvOverrides() {
	_ = godotenv.Load()

	overrides := map[string]*string{
		"LISTSYNC_QQ_COOKIE":        &c.Sources.QQ.Cookie,
		"LISTSYNC_NETEASE_USERNAME": &c.Sources.Netease.Username,
		"LISTSYNC_NETEASE_PASSWORD": &c.Sources.Netease.Password,
		"LISTSYNC_EMBY_API_KEY":     &c.Backends.Emby.APIKey,
		"LISTSYNC_PLEX_TOKEN":       &c.Backends.Plex.Token,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}
