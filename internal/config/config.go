// Package config handles configuration for the vault CLI,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the vault CLI.
//
// Fields:
//   - Owner: identifier of the local profile the CLI operates on.
//   - DatabaseDSN: SQLite file path or PostgreSQL DSN (pgx).
//   - DownloadDir: directory decrypted files are written to.
//   - ShareURLTTL: validity window for presigned share links.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	Owner          string
	DatabaseDSN    string
	DownloadDir    string
	ShareURLTTL    time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Owner = "default"
	c.DatabaseDSN = "filevault.db"
	c.DownloadDir = "downloads"
	c.ShareURLTTL = 15 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
