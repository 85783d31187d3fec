package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Log    LogConfig
	CORS   CORSConfig
	Report ReportConfig
	S3     S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the shared secret used to verify bearer tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReportConfig holds report listing and partner report settings.
type ReportConfig struct {
	// CompletedStatusID is the order status that marks an order as paid.
	CompletedStatusID   string `mapstructure:"completed_status_id"`
	TemplatePath        string `mapstructure:"template_path"`
	DefaultItemsPerPage int    `mapstructure:"default_items_per_page"`
	MaxItemsPerPage     int    `mapstructure:"max_items_per_page"`
}

// S3Config holds the object storage used to archive rendered partner reports.
// Archiving is disabled when Bucket is empty.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// ArchiveEnabled reports whether rendered documents should be uploaded.
func (s *S3Config) ArchiveEnabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from an optional .env file and environment
// variables with the REPORTSVC_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("REPORTSVC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "reportsvc")
	v.SetDefault("db.password", "reportsvc_secret")
	v.SetDefault("db.name", "reportsvc_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("jwt.secret", "change-me-in-production")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Report defaults
	v.SetDefault("report.completed_status_id", "e04621d0-3997-4c69-9054-a10257602a29")
	v.SetDefault("report.template_path", "")
	v.SetDefault("report.default_items_per_page", 5)
	v.SetDefault("report.max_items_per_page", 100)

	// S3 defaults (archive disabled)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "partner-reports")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "REPORTSVC_SERVER_PORT",
		"server.read_timeout":           "REPORTSVC_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "REPORTSVC_SERVER_WRITE_TIMEOUT",
		"server.environment":            "REPORTSVC_SERVER_ENVIRONMENT",
		"db.host":                       "REPORTSVC_DB_HOST",
		"db.port":                       "REPORTSVC_DB_PORT",
		"db.user":                       "REPORTSVC_DB_USER",
		"db.password":                   "REPORTSVC_DB_PASSWORD",
		"db.name":                       "REPORTSVC_DB_NAME",
		"db.sslmode":                    "REPORTSVC_DB_SSLMODE",
		"db.max_open":                   "REPORTSVC_DB_MAX_OPEN",
		"db.max_idle":                   "REPORTSVC_DB_MAX_IDLE",
		"jwt.secret":                    "REPORTSVC_JWT_SECRET",
		"log.level":                     "REPORTSVC_LOG_LEVEL",
		"log.format":                    "REPORTSVC_LOG_FORMAT",
		"cors.allowed_origins":          "REPORTSVC_CORS_ALLOWED_ORIGINS",
		"report.completed_status_id":    "REPORTSVC_REPORT_COMPLETED_STATUS_ID",
		"report.template_path":          "REPORTSVC_REPORT_TEMPLATE_PATH",
		"report.default_items_per_page": "REPORTSVC_REPORT_DEFAULT_ITEMS_PER_PAGE",
		"report.max_items_per_page":     "REPORTSVC_REPORT_MAX_ITEMS_PER_PAGE",
		"s3.region":                     "REPORTSVC_S3_REGION",
		"s3.bucket":                     "REPORTSVC_S3_BUCKET",
		"s3.endpoint":                   "REPORTSVC_S3_ENDPOINT",
		"s3.access_key":                 "REPORTSVC_S3_ACCESS_KEY",
		"s3.secret_key":                 "REPORTSVC_S3_SECRET_KEY",
		"s3.prefix":                     "REPORTSVC_S3_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if REPORTSVC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REPORTSVC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Report = ReportConfig{
		CompletedStatusID:   v.GetString("report.completed_status_id"),
		TemplatePath:        v.GetString("report.template_path"),
		DefaultItemsPerPage: v.GetInt("report.default_items_per_page"),
		MaxItemsPerPage:     v.GetInt("report.max_items_per_page"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}

	return cfg, nil
}
