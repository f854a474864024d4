package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Media drivers
const (
	MediaDriverCloudinary = "cloudinary"
	MediaDriverSpaces     = "spaces"
	MediaDriverLocal      = "local"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
		PublicURL   string `yaml:"public_url" env:"PUBLIC_URL"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Auth struct {
		SuperAdminEmail    string `yaml:"super_admin_email" env:"SUPER_ADMIN_EMAIL"`
		SuperAdminPassword string `yaml:"super_admin_password" env:"SUPER_ADMIN_PASSWORD"`
	} `yaml:"auth"`

	Media struct {
		Driver      string `yaml:"driver" env:"MEDIA_DRIVER"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"MEDIA_MAX_UPLOAD_MB"`
		MaxPDFPages int    `yaml:"max_pdf_pages" env:"MEDIA_MAX_PDF_PAGES"`

		Cloudinary struct {
			CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
			APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
			APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
		} `yaml:"cloudinary"`

		Spaces struct {
			AccessKey string `yaml:"access_key" env:"SPACES_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"SPACES_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"SPACES_BUCKET"`
			Region    string `yaml:"region" env:"SPACES_REGION"`
			Endpoint  string `yaml:"endpoint" env:"SPACES_ENDPOINT"`
			CDNURL    string `yaml:"cdn_url" env:"SPACES_CDN_URL"`
		} `yaml:"spaces"`
	} `yaml:"media"`

	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL"`
	} `yaml:"redis"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables,
// in increasing order of precedence, and validates it for the API server.
func LoadConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadDatabaseConfig loads configuration like LoadConfig but only requires the
// database settings. Used by one-shot commands such as the seeder.
func LoadDatabaseConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}
	if err := validateDatabase(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func load(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env never overrides variables already present in the process environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Auth.SuperAdminEmail = strings.ToLower(strings.TrimSpace(config.Auth.SuperAdminEmail))
	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "edudirectory"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "edudirectory.admin"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Media defaults
	config.Media.Driver = MediaDriverCloudinary
	config.Media.MaxUploadMB = 20
	config.Media.MaxPDFPages = 200
}

func validateDatabase(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database url or host is required")
	}
	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if err := validateDatabase(config); err != nil {
		return err
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Auth.SuperAdminEmail == "" {
		return fmt.Errorf("super admin email is required")
	}

	switch config.Media.Driver {
	case MediaDriverCloudinary:
		c := config.Media.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return fmt.Errorf("cloudinary cloud name, api key and api secret are required")
		}
	case MediaDriverSpaces:
		s := config.Media.Spaces
		if s.AccessKey == "" || s.SecretKey == "" || s.Bucket == "" || s.Endpoint == "" {
			return fmt.Errorf("spaces access key, secret key, bucket and endpoint are required")
		}
	case MediaDriverLocal:
	default:
		return fmt.Errorf("unknown media driver %q", config.Media.Driver)
	}

	if config.Media.MaxUploadMB <= 0 {
		return fmt.Errorf("media max upload size must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string, preferring an
// explicit database url
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}
