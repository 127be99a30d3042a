package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}

	base := strings.TrimSpace(v.GetString("api.base_url"))
	if base == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if u, err := url.Parse(base); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url has invalid url %q", base))
	}

	if raw := strings.TrimSpace(v.GetString("api.timeout")); raw != "" {
		if d, err := time.ParseDuration(raw); err != nil {
			errs = append(errs, fmt.Errorf("api.timeout is not a duration: %q", raw))
		} else if d <= 0 {
			errs = append(errs, errors.New("api.timeout must be greater than 0"))
		}
	}

	switch p := v.GetString("auth.provider"); p {
	case "config", "keyring":
	case "env":
		if strings.TrimSpace(v.GetString("auth.token_env")) == "" {
			errs = append(errs, errors.New("auth.token_env is required for env provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.provider must be config, keyring or env (got %q)", p))
	}

	if v.GetInt("render.word_wrap") <= 0 {
		errs = append(errs, errors.New("render.word_wrap must be greater than 0"))
	}

	dsn := v.GetString("serve.dsn")
	if dsn != "" && !strings.HasPrefix(dsn, "mem://") && !strings.HasPrefix(dsn, "sqlite://") {
		errs = append(errs, fmt.Errorf("serve.dsn must start with mem:// or sqlite:// (got %q)", dsn))
	}

	return errors.Join(errs...)
}

// Timeout returns api.timeout, falling back to 20s for unset or invalid values.
func Timeout(v *viper.Viper) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString("api.timeout")))
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}
