package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		apiKey    string
		token     string
		workspace string
		wantErr   bool
	}{
		{
			name:      "API key auth",
			baseURL:   "https://plane.example.com/",
			apiKey:    "test-key",
			token:     "",
			workspace: "acme",
			wantErr:   false,
		},
		{
			name:      "OAuth token auth",
			baseURL:   "",
			apiKey:    "",
			token:     "test-token",
			workspace: "acme",
			wantErr:   false,
		},
		{
			name:      "Missing credentials",
			baseURL:   "https://plane.example.com",
			apiKey:    "",
			token:     "",
			workspace: "acme",
			wantErr:   true,
		},
		{
			name:      "Missing workspace",
			baseURL:   "https://plane.example.com",
			apiKey:    "test-key",
			token:     "",
			workspace: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original env vars
			origBaseURL := os.Getenv("PLANE_BASE_URL")
			origAPIKey := os.Getenv("PLANE_API_KEY")
			origToken := os.Getenv("PLANE_ACCESS_TOKEN")
			origWorkspace := os.Getenv("PLANE_WORKSPACE")

			// Set test env vars
			require.NoError(t, os.Setenv("PLANE_BASE_URL", tt.baseURL))
			require.NoError(t, os.Setenv("PLANE_API_KEY", tt.apiKey))
			require.NoError(t, os.Setenv("PLANE_ACCESS_TOKEN", tt.token))
			require.NoError(t, os.Setenv("PLANE_WORKSPACE", tt.workspace))

			// Run test
			config, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, config)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, config)
				if tt.baseURL == "" {
					assert.Equal(t, "https://api.plane.so", config.Plane.BaseURL)
				} else {
					// Trailing slashes are trimmed
					assert.Equal(t, "https://plane.example.com", config.Plane.BaseURL)
				}
				assert.Equal(t, tt.workspace, config.Plane.Workspace)
				assert.NotEmpty(t, config.Cache.Path)
			}

			// Restore original env vars
			require.NoError(t, os.Setenv("PLANE_BASE_URL", origBaseURL))
			require.NoError(t, os.Setenv("PLANE_API_KEY", origAPIKey))
			require.NoError(t, os.Setenv("PLANE_ACCESS_TOKEN", origToken))
			require.NoError(t, os.Setenv("PLANE_WORKSPACE", origWorkspace))
		})
	}
}

func TestValidatePlaneConfig(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		token     string
		workspace string
		wantErr   bool
	}{
		{
			name:      "All fields present",
			apiKey:    "key",
			token:     "",
			workspace: "acme",
			wantErr:   false,
		},
		{
			name:      "Token instead of key",
			apiKey:    "",
			token:     "token",
			workspace: "acme",
			wantErr:   false,
		},
		{
			name:      "Missing credentials",
			apiKey:    "",
			token:     "",
			workspace: "acme",
			wantErr:   true,
		},
		{
			name:      "Missing workspace",
			apiKey:    "key",
			token:     "",
			workspace: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Plane: PlaneConfig{
					APIKey:      tt.apiKey,
					AccessToken: tt.token,
					Workspace:   tt.workspace,
				},
			}

			err := ValidatePlaneConfig(config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
