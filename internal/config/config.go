package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Exposure struct {
		GithubToken    string `yaml:"github_token"`
		APIURL         string `yaml:"api_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheTTLHours  int    `yaml:"cache_ttl_hours"`
		RateLimit      int    `yaml:"rate_limit"`
		RateWindowMin  int    `yaml:"rate_window_minutes"`
	} `yaml:"exposure"`

	Stripe struct {
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
		PriceID       string `yaml:"price_id"`
		SuccessURL    string `yaml:"success_url"`
		CancelURL     string `yaml:"cancel_url"`
	} `yaml:"stripe"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyEnvOverrides(&cfg)
		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Environment-only mode (tests, containers without a config file)
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "alerts@digivera.io"
	cfg.Email.FromName = "DIGIVERA"

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyEnvOverrides lets secrets come from the environment even when
// the rest of the config is file-based, so tokens never land in yaml.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Exposure.GithubToken = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Stripe.SecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		cfg.Stripe.WebhookSecret = v
	}
	if v := os.Getenv("STRIPE_PRICE_ID"); v != "" {
		cfg.Stripe.PriceID = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Exposure.APIURL == "" {
		cfg.Exposure.APIURL = "https://api.github.com/search/code"
	}
	if cfg.Exposure.TimeoutSeconds <= 0 {
		cfg.Exposure.TimeoutSeconds = 5
	}
	if cfg.Exposure.CacheTTLHours <= 0 {
		cfg.Exposure.CacheTTLHours = 24
	}
	if cfg.Exposure.RateLimit <= 0 {
		cfg.Exposure.RateLimit = 10
	}
	if cfg.Exposure.RateWindowMin <= 0 {
		cfg.Exposure.RateWindowMin = 1
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 60
	}
}

func (c *Config) ExposureTimeout() time.Duration {
	return time.Duration(c.Exposure.TimeoutSeconds) * time.Second
}

func (c *Config) ExposureCacheTTL() time.Duration {
	return time.Duration(c.Exposure.CacheTTLHours) * time.Hour
}

func (c *Config) ExposureRateWindow() time.Duration {
	return time.Duration(c.Exposure.RateWindowMin) * time.Minute
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
