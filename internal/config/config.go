// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Plane PlaneConfig
	Cache CacheConfig
}

// PlaneConfig holds Plane API specific configuration.
type PlaneConfig struct {
	// BaseURL is the root of the Plane API, without a trailing slash
	BaseURL string

	// APIKey authenticates requests via the X-API-Key header
	APIKey string

	// AccessToken authenticates requests as an OAuth bearer token; used when
	// no API key is set
	AccessToken string

	// Workspace is the workspace slug all resource paths are scoped under
	Workspace string
}

// CacheConfig holds local cache persistence configuration.
type CacheConfig struct {
	// Path is the location of the persisted cache file
	Path string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Initialize Viper for environment variables
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("plane.base_url", "PLANE_BASE_URL")
	v.BindEnv("plane.api_key", "PLANE_API_KEY")
	v.BindEnv("plane.access_token", "PLANE_ACCESS_TOKEN")
	v.BindEnv("plane.workspace", "PLANE_WORKSPACE")
	v.BindEnv("cache.path", "ORBIT_CACHE_PATH")

	// Create config structure
	config := &Config{
		Plane: PlaneConfig{
			BaseURL:     v.GetString("plane.base_url"),
			APIKey:      v.GetString("plane.api_key"),
			AccessToken: v.GetString("plane.access_token"),
			Workspace:   v.GetString("plane.workspace"),
		},
		Cache: CacheConfig{
			Path: v.GetString("cache.path"),
		},
	}

	// Default to the hosted Plane API
	if config.Plane.BaseURL == "" {
		config.Plane.BaseURL = "https://api.plane.so"
	}
	config.Plane.BaseURL = strings.TrimRight(config.Plane.BaseURL, "/")

	if config.Cache.Path == "" {
		config.Cache.Path = CachePath()
	}

	// Validate configuration
	if err := ValidatePlaneConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidatePlaneConfig ensures that all configuration required to reach the
// Plane API is provided. It is checked before any network call is made.
func ValidatePlaneConfig(config *Config) error {
	var missingVars []string

	if config.Plane.APIKey == "" && config.Plane.AccessToken == "" {
		missingVars = append(missingVars, "PLANE_API_KEY (or PLANE_ACCESS_TOKEN)")
	}
	if config.Plane.Workspace == "" {
		missingVars = append(missingVars, "PLANE_WORKSPACE")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// CachePath returns the cache file location: ORBIT_CACHE_PATH when set,
// otherwise a file under the user's config directory. Read-only commands use
// this directly so they work without any API credentials configured.
func CachePath() string {
	if path := os.Getenv("ORBIT_CACHE_PATH"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "orbit-cache.json"
	}
	return filepath.Join(homeDir, ".config", "orbit", "cache.json")
}
