// Package config loads the server configuration from an optional YAML file
// and SITE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var ga4MeasurementID = regexp.MustCompile(`^G-[A-Z0-9]+$`)

// Config is the full server configuration.
type Config struct {
	// Environment is development or production.
	Environment string `env:"SITE_ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel is a zap level name.
	LogLevel string `env:"LOG_LEVEL" env-default:"info" yaml:"logLevel"`

	HTTP struct {
		Addr              string        `env:"SITE_HTTP_ADDR" env-default:":8080" yaml:"addr"`
		BaseURL           string        `env:"SITE_BASE_URL" env-default:"http://localhost:8080" yaml:"baseURL"`
		ReadTimeout       time.Duration `env:"SITE_HTTP_READ_TIMEOUT" env-default:"15s" yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `env:"SITE_HTTP_READ_HEADER_TIMEOUT" env-default:"5s" yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `env:"SITE_HTTP_WRITE_TIMEOUT" env-default:"30s" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `env:"SITE_HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		RequestTimeout    time.Duration `env:"SITE_HTTP_REQUEST_TIMEOUT" env-default:"20s" yaml:"requestTimeout"`
		ShutdownTimeout   time.Duration `env:"SITE_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"shutdownTimeout"`
		MetricsPath       string        `env:"SITE_HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AssetsDir is served under /assets/.
		AssetsDir string `env:"SITE_ASSETS_DIR" env-default:"public/assets" yaml:"assetsDir"`
	} `yaml:"http"`

	Relay struct {
		Endpoint  string        `env:"SITE_RELAY_ENDPOINT" env-default:"https://api.web3forms.com/submit" yaml:"endpoint"`
		AccessKey string        `env:"SITE_RELAY_ACCESS_KEY" yaml:"accessKey"`
		Subject   string        `env:"SITE_RELAY_SUBJECT" env-default:"Új ajánlatkérés" yaml:"subject"`
		FromName  string        `env:"SITE_RELAY_FROM_NAME" env-default:"DobosDev weboldal" yaml:"fromName"`
		Timeout   time.Duration `env:"SITE_RELAY_TIMEOUT" env-default:"10s" yaml:"timeout"`
	} `yaml:"relay"`

	Captcha struct {
		SiteKey   string `env:"SITE_CAPTCHA_SITE_KEY" yaml:"siteKey"`
		Secret    string `env:"SITE_CAPTCHA_SECRET" yaml:"secret"`
		VerifyURL string `env:"SITE_CAPTCHA_VERIFY_URL" env-default:"https://api.hcaptcha.com/siteverify" yaml:"verifyURL"`
	} `yaml:"captcha"`

	Session struct {
		SigningKey   string `env:"SITE_SESSION_SIGNING_KEY" yaml:"signingKey"`
		SecureCookie bool   `env:"SITE_SESSION_SECURE" env-default:"false" yaml:"secure"`
	} `yaml:"session"`

	Analytics struct {
		GA4MeasurementID string `env:"SITE_GA_MEASUREMENT_ID" yaml:"ga4MeasurementID"`
		Debug            bool   `env:"SITE_ANALYTICS_DEBUG" env-default:"false" yaml:"debug"`
	} `yaml:"analytics"`

	RateLimit struct {
		PerMinute int `env:"SITE_CONTACT_RATE_PER_MINUTE" env-default:"5" yaml:"perMinute"`
		Burst     int `env:"SITE_CONTACT_RATE_BURST" env-default:"3" yaml:"burst"`
	} `yaml:"rateLimit"`
}

// ValidationError lists missing or invalid fields.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load reads path when it exists, then applies the environment. An empty
// path or a missing file means environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}
			return finish(&cfg)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not stat config: %w", err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	}
	cfg.HTTP.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.HTTP.BaseURL), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool { return c.Environment == EnvProduction }

// Validate enforces the settings production cannot run without.
func (c *Config) Validate() error {
	var bad []string
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		bad = append(bad, "environment")
	}
	if c.HTTP.Addr == "" {
		bad = append(bad, "http.addr")
	}
	if !strings.HasPrefix(c.HTTP.BaseURL, "http://") && !strings.HasPrefix(c.HTTP.BaseURL, "https://") {
		bad = append(bad, "http.baseURL")
	}
	if c.RateLimit.PerMinute <= 0 {
		bad = append(bad, "rateLimit.perMinute")
	}
	if c.RateLimit.Burst <= 0 {
		bad = append(bad, "rateLimit.burst")
	}
	if id := c.Analytics.GA4MeasurementID; id != "" && !ga4MeasurementID.MatchString(id) {
		bad = append(bad, "analytics.ga4MeasurementID")
	}
	if c.Production() {
		if len(c.Session.SigningKey) < 32 {
			bad = append(bad, "session.signingKey")
		}
		if c.Relay.AccessKey == "" {
			bad = append(bad, "relay.accessKey")
		}
		if c.Captcha.SiteKey == "" {
			bad = append(bad, "captcha.siteKey")
		}
	}
	if len(bad) > 0 {
		return &ValidationError{fields: bad}
	}
	return nil
}
