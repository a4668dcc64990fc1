package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/inkverse/core/internal/pkg/imagestore"
	"github.com/inkverse/core/internal/pkg/mail"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config.yml"

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DSN      string `yaml:"dsn"`
}

// AppConfig is the full application configuration loaded from YAML.
type AppConfig struct {
	Env            string   `yaml:"env"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	FrontendURL    string   `yaml:"frontend_url"`
	SiteName       string   `yaml:"site_name"`

	Database DatabaseConfig `yaml:"database"`
	RedisURL string         `yaml:"redis_url"`

	JWTSecret string `yaml:"jwt_secret"`

	Mail mail.Config       `yaml:"mail"`
	S3   imagestore.Config `yaml:"s3"`

	GoogleClientID string `yaml:"google_client_id"`
}

// Load reads and validates the YAML config file.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Port == 0 {
		c.Port = 2333
	}
	if c.SiteName == "" {
		c.SiteName = "Inkverse"
	}
	if c.FrontendURL == "" {
		c.FrontendURL = "http://localhost:5173"
	}
	if c.RedisURL == "" {
		c.RedisURL = "redis://localhost:6379/0"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "inkverse"
	}
}

// DSNValue returns the MySQL DSN, building it from parts unless an
// explicit dsn was configured.
func (c *AppConfig) DSNValue() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// VerifyEmailURL builds the frontend link embedded in verification mails.
func (c *AppConfig) VerifyEmailURL(token string) string {
	return strings.TrimSuffix(c.FrontendURL, "/") + "/verify-email/" + token
}
