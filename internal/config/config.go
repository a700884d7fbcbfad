package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	API    APIConfig    `koanf:"api"`
	Auth   AuthConfig   `koanf:"auth"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

// APIConfig is the backend session: base URL and bearer token, plus the
// per-operation timeouts the client enforces itself.
type APIConfig struct {
	URL            string `koanf:"url"`
	Token          string `koanf:"token"`
	RequestTimeout string `koanf:"request_timeout"`
	FetchTimeout   string `koanf:"fetch_timeout"`
	UploadTimeout  string `koanf:"upload_timeout"`
}

// AuthConfig holds the shared secret callers of the MCP endpoint must
// present as a bearer token.
type AuthConfig struct {
	Token string `koanf:"token"`
}

const (
	DefaultServerPort            = 3001
	DefaultServerLogLevel        = "info"
	DefaultServerReadTimeout     = "30s"
	DefaultServerWriteTimeout    = "120s"
	DefaultServerIdleTimeout     = "60s"
	DefaultServerShutdownTimeout = "5s"
	DefaultAPIRequestTimeout     = "30s"
	DefaultAPIFetchTimeout       = "15s"
	DefaultAPIUploadTimeout      = "60s"
)

// Load layers configuration sources: hardcoded defaults, then an optional
// YAML file, then ATELIER_* environment variables, then CLI flags.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             DefaultServerPort,
		"server.log_level":        DefaultServerLogLevel,
		"server.read_timeout":     DefaultServerReadTimeout,
		"server.write_timeout":    DefaultServerWriteTimeout,
		"server.idle_timeout":     DefaultServerIdleTimeout,
		"server.shutdown_timeout": DefaultServerShutdownTimeout,
		"api.request_timeout":     DefaultAPIRequestTimeout,
		"api.fetch_timeout":       DefaultAPIFetchTimeout,
		"api.upload_timeout":      DefaultAPIUploadTimeout,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".atelier", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("ATELIER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ATELIER_")), "_", ".", -1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the startup requirements: auth secret, backend token,
// backend URL, and a usable port. Missing any of these is fatal.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Token) == "" {
		return fmt.Errorf("auth.token is required (set ATELIER_AUTH_TOKEN)")
	}
	if strings.TrimSpace(c.API.Token) == "" {
		return fmt.Errorf("api.token is required (set ATELIER_API_TOKEN)")
	}
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("api.url is required (set ATELIER_API_URL)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}
	return nil
}
