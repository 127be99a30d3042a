package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the public article API the client talks to by default.
const DefaultBaseURL = "https://backend-api-9idz.onrender.com"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration options, their defaults and meanings.
// This is the single source of truth for defaults, validation and `config generate`.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state (sandbox database, uploaded images)"},

		{Key: "api.base_url", Default: DefaultBaseURL, Comment: "Root URL of the article API"},
		{Key: "api.timeout", Default: "20s", Comment: "Per-request timeout (Go duration)"},

		{Key: "auth.provider", Default: "config", Comment: "Where the bearer token comes from: config|keyring|env"},
		{Key: "auth.token", Default: "", Comment: "Bearer token when auth.provider = config"},
		{Key: "auth.token_env", Default: "SCHOLIA_TOKEN", Comment: "Environment variable read when auth.provider = env"},
		{Key: "auth.keyring_service", Default: "scholia", Comment: "Keyring service name when auth.provider = keyring"},
		{Key: "auth.account", Default: "default", Comment: "Keyring account holding the token"},

		{Key: "log.file", Default: "", Comment: "Log file used while the TUI owns the terminal (empty discards)"},

		{Key: "render.style", Default: "dracula", Comment: "Glamour style for rendered markdown (dracula|dark|light|notty|auto)"},
		{Key: "render.word_wrap", Default: 80, Comment: "Wrap width for rendered article text"},

		{Key: "tui.alt_screen", Default: true, Comment: "Run the TUI in the alternate screen buffer"},

		{Key: "serve.addr", Default: "127.0.0.1:8080", Comment: "Listen address of the sandbox article API"},
		{Key: "serve.dsn", Default: "", Comment: "Sandbox store: mem:// or sqlite://path (empty uses data_dir/sandbox.db)"},
		{Key: "serve.token", Default: "", Comment: "Bearer token the sandbox requires for publishing"},
		{Key: "serve.image_dir", Default: "", Comment: "Directory for uploaded images (empty uses data_dir/images)"},
	}
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream takes precedence; these paths are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "scholia"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "scholia"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	// Environment variables: SCHOLIA_* (highest among these sources)
	v.SetEnvPrefix("scholia")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize dependent values post-merge
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	dataDir := expandHome(v.GetString("data_dir"))
	if strings.TrimSpace(v.GetString("serve.dsn")) == "" {
		v.Set("serve.dsn", "sqlite://"+filepath.Join(dataDir, "sandbox.db"))
	}
	if strings.TrimSpace(v.GetString("serve.image_dir")) == "" {
		v.Set("serve.image_dir", filepath.Join(dataDir, "images"))
	}
	v.Set("auth.provider", strings.ToLower(strings.TrimSpace(v.GetString("auth.provider"))))
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/scholia or ~/.local/share/scholia.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scholia")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "scholia")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "scholia", "config.toml")
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}
