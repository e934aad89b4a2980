// SPDX-License-Identifier: MIT

// Package config loads the console configuration with the precedence
// ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rsvideo/console/internal/expiry"
	"github.com/rsvideo/console/internal/validate"
)

// Gateway modes.
const (
	GatewayHTTP = "http"
	GatewayFile = "file"
	GatewayS3   = "s3"
)

// Config is the full runtime configuration.
type Config struct {
	Listen   string `yaml:"listen"`
	DataDir  string `yaml:"dataDir"`
	LogLevel string `yaml:"logLevel"`

	// Persistence gateway selection and settings.
	GatewayMode  string `yaml:"gatewayMode"`
	DocumentURL  string `yaml:"documentUrl"`  // http mode: public GET location
	UploadURL    string `yaml:"uploadUrl"`    // http mode: write endpoint
	DocumentPath string `yaml:"documentPath"` // file mode: local path

	S3Endpoint       string `yaml:"s3Endpoint"`
	S3Region         string `yaml:"s3Region"`
	S3Bucket         string `yaml:"s3Bucket"`
	S3Key            string `yaml:"s3Key"`
	S3AccessKey      string `yaml:"s3AccessKey"`
	S3SecretKey      string `yaml:"s3SecretKey"`
	S3ForcePathStyle bool   `yaml:"s3ForcePathStyle"`

	// Admin login gate. The defaults match the deployed console; override
	// them in any real deployment.
	AdminUser      string   `yaml:"adminUser"`
	AdminPass      string   `yaml:"adminPass"`
	SessionTTL     Duration `yaml:"sessionTtl"`
	LoginRateLimit int      `yaml:"loginRateLimit"` // attempts per minute per IP

	// Optional Redis-backed session store; empty means in-memory.
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`

	ExpiryPollInterval Duration `yaml:"expiryPollInterval"`

	// Durable local state. Empty values disable the feature.
	SpoolDir  string `yaml:"spoolDir"`
	AuditPath string `yaml:"auditPath"`

	// Tracing.
	TracingEnabled  bool   `yaml:"tracingEnabled"`
	TracingEndpoint string `yaml:"tracingEndpoint"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Listen:             ":8080",
		DataDir:            "/var/lib/rsvideo",
		LogLevel:           "info",
		GatewayMode:        GatewayFile,
		DocumentPath:       "", // derived from DataDir when empty
		AdminUser:          "admin",
		AdminPass:          "admin",
		SessionTTL:         Duration(24 * time.Hour),
		LoginRateLimit:     10,
		ExpiryPollInterval: Duration(expiry.DefaultPollInterval),
	}
}

// Load builds the configuration: defaults, overlaid by an optional YAML file,
// overlaid by environment variables.
func Load(filePath string) (Config, error) {
	cfg := Defaults()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = ParseString("RSVIDEO_LISTEN", c.Listen)
	c.DataDir = ParseString("RSVIDEO_DATA", c.DataDir)
	c.LogLevel = ParseString("RSVIDEO_LOG_LEVEL", c.LogLevel)

	c.GatewayMode = ParseString("RSVIDEO_GATEWAY_MODE", c.GatewayMode)
	c.DocumentURL = ParseString("RSVIDEO_DOCUMENT_URL", c.DocumentURL)
	c.UploadURL = ParseString("RSVIDEO_UPLOAD_URL", c.UploadURL)
	c.DocumentPath = ParseString("RSVIDEO_DOCUMENT_PATH", c.DocumentPath)

	c.S3Endpoint = ParseString("RSVIDEO_S3_ENDPOINT", c.S3Endpoint)
	c.S3Region = ParseString("RSVIDEO_S3_REGION", c.S3Region)
	c.S3Bucket = ParseString("RSVIDEO_S3_BUCKET", c.S3Bucket)
	c.S3Key = ParseString("RSVIDEO_S3_KEY", c.S3Key)
	c.S3AccessKey = ParseString("RSVIDEO_S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = ParseString("RSVIDEO_S3_SECRET_KEY", c.S3SecretKey)
	c.S3ForcePathStyle = ParseBool("RSVIDEO_S3_FORCE_PATH_STYLE", c.S3ForcePathStyle)

	c.AdminUser = ParseString("RSVIDEO_ADMIN_USER", c.AdminUser)
	c.AdminPass = ParseString("RSVIDEO_ADMIN_PASS", c.AdminPass)
	c.SessionTTL = Duration(ParseDuration("RSVIDEO_SESSION_TTL", c.SessionTTL.Std()))
	c.LoginRateLimit = ParseInt("RSVIDEO_LOGIN_RATE_LIMIT", c.LoginRateLimit)

	c.RedisAddr = ParseString("RSVIDEO_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = ParseString("RSVIDEO_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = ParseInt("RSVIDEO_REDIS_DB", c.RedisDB)

	c.ExpiryPollInterval = Duration(ParseDuration("RSVIDEO_EXPIRY_POLL_INTERVAL", c.ExpiryPollInterval.Std()))

	c.SpoolDir = ParseString("RSVIDEO_SPOOL_DIR", c.SpoolDir)
	c.AuditPath = ParseString("RSVIDEO_AUDIT_PATH", c.AuditPath)

	c.TracingEnabled = ParseBool("RSVIDEO_TRACING_ENABLED", c.TracingEnabled)
	c.TracingEndpoint = ParseString("RSVIDEO_TRACING_ENDPOINT", c.TracingEndpoint)
}

func (c *Config) applyDerived() {
	if c.GatewayMode == GatewayFile && c.DocumentPath == "" {
		c.DocumentPath = c.DataDir + "/video_list.json"
	}
}

// Validate checks the configuration for startup.
func (c *Config) Validate() error {
	v := validate.New()
	v.NonEmpty("Listen", c.Listen)
	v.OneOf("GatewayMode", c.GatewayMode, []string{GatewayHTTP, GatewayFile, GatewayS3})
	v.Positive("LoginRateLimit", c.LoginRateLimit)

	switch c.GatewayMode {
	case GatewayHTTP:
		v.URL("DocumentURL", c.DocumentURL, []string{"http", "https"})
		v.URL("UploadURL", c.UploadURL, []string{"http", "https"})
	case GatewayFile:
		v.NonEmpty("DocumentPath", c.DocumentPath)
	case GatewayS3:
		v.NonEmpty("S3Bucket", c.S3Bucket)
		v.NonEmpty("S3AccessKey", c.S3AccessKey)
		v.NonEmpty("S3SecretKey", c.S3SecretKey)
	}

	if c.ExpiryPollInterval <= 0 {
		v.AddError("ExpiryPollInterval", "must be positive", c.ExpiryPollInterval)
	}
	return v.Err()
}
