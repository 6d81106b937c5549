package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAITimeout = 30 * time.Second

type Server struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
	RateLimit    float64  `yaml:"rate_limit"`
}

type Storage struct {
	// Driver is "file" (default) or "postgres".
	Driver  string `yaml:"driver"`
	DataDir string `yaml:"data_dir"`

	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
}

func (s Storage) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", s.DBUsername, s.DBPassword, s.DBHost, s.DBPort, s.DBName)
}

type Gemini struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (g Gemini) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return defaultAITimeout
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// R2 holds the object storage used for clothing photos. Empty Bucket
// disables the upload endpoints.
type R2 struct {
	AccountID       string `yaml:"account_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	Bucket          string `yaml:"bucket"`
}

func (r R2) Enabled() bool {
	return r.Bucket != ""
}

type Config struct {
	Env       string  `yaml:"env"`
	LogLevel  string  `yaml:"log_level"`
	SentryDSN string  `yaml:"sentry_dsn"`
	Server    Server  `yaml:"server"`
	Storage   Storage `yaml:"storage"`
	Gemini    Gemini  `yaml:"gemini"`
	R2        R2      `yaml:"r2"`
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// DefaultPath is WARDROBE_CONFIG or config.yaml in the working directory.
func DefaultPath() string {
	return GetEnv("WARDROBE_CONFIG", "config.yaml")
}

// Load reads the YAML file at path and fills every empty value from the
// environment, so a value in the file always wins over the env var. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func fill(dst *string, key, fallback string) {
	if *dst == "" {
		*dst = GetEnv(key, fallback)
	}
}

func (c *Config) applyEnv() {
	fill(&c.Env, "ENV", "local")
	fill(&c.LogLevel, "LOG_LEVEL", "info")
	fill(&c.SentryDSN, "SENTRY_DSN", "")

	fill(&c.Server.Port, "PORT", "8000")
	if len(c.Server.AllowOrigins) == 0 {
		origins := GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowOrigins = append(c.Server.AllowOrigins, o)
			}
		}
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit, _ = strconv.ParseFloat(GetEnv("RATE_LIMIT", "20"), 64)
	}

	fill(&c.Storage.Driver, "STORAGE_DRIVER", "file")
	fill(&c.Storage.DataDir, "WARDROBE_DATA_DIR", ".")
	fill(&c.Storage.DBUsername, "DB_USERNAME", "")
	fill(&c.Storage.DBPassword, "DB_PASSWORD", "")
	fill(&c.Storage.DBHost, "DB_HOST", "localhost")
	fill(&c.Storage.DBPort, "DB_PORT", "5432")
	fill(&c.Storage.DBName, "DB_NAME", "")

	fill(&c.Gemini.APIKey, "GEMINI_API_KEY", "")
	fill(&c.Gemini.Model, "GEMINI_MODEL", "")
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds, _ = strconv.Atoi(GetEnv("AI_TIMEOUT_SECONDS", "30"))
	}

	fill(&c.R2.AccountID, "R2_ACCOUNT_ID", "")
	fill(&c.R2.AccessKeyID, "R2_ACCESS_KEY_ID", "")
	fill(&c.R2.AccessKeySecret, "R2_ACCESS_KEY_SECRET", "")
	fill(&c.R2.Bucket, "R2_BUCKET_NAME", "")
}
