package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories and display.
const appName = "archlens"

// defaultConfigFile is picked up from the working directory when --config
// is not given.
const defaultConfigFile = "archlens.toml"

// Config holds file-based defaults for the CLI and the HTTP server.
// Command-line flags override config values, which override built-in defaults.
type Config struct {
	Transform TransformConfig `toml:"transform"`
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
}

// TransformConfig holds default transform parameters.
type TransformConfig struct {
	Algorithm     string  `toml:"algorithm"`      // force, hierarchical, radial, manual
	Zoom          float64 `toml:"zoom"`           // semantic zoom level
	Bundling      bool    `toml:"bundling"`       // enable edge bundling
	ExpectedLinks int     `toml:"expected_links"` // links per goal for full coverage
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr  string `toml:"addr"`  // listen address (e.g., ":8080")
	Model string `toml:"model"` // model file served and watched for changes
}

// CacheConfig selects and configures the scene cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`    // none, memory, file, redis, mongo
	Dir       string `toml:"dir"`        // file backend: cache directory
	RedisAddr string `toml:"redis_addr"` // redis backend: host:port
	MongoURI  string `toml:"mongo_uri"`  // mongo backend: connection URI
}

// defaultConfig returns the built-in defaults applied before any file is read.
func defaultConfig() Config {
	return Config{
		Transform: TransformConfig{
			Algorithm:     "force",
			Zoom:          1.0,
			Bundling:      true,
			ExpectedLinks: 2,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Cache: CacheConfig{
			Backend: "file",
		},
	}
}

// loadConfig reads the TOML config at path, or archlens.toml in the working
// directory when path is empty. A missing file is not an error; built-in
// defaults are returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/archlens/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
