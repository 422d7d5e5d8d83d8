package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.APIPrefix)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data/products.json", cfg.Storage.DataFile)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FILE", "/tmp/catalog.json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/catalog.json", cfg.Storage.DataFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"file driver ok", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "ftp" }, true},
		{"file driver without path", func(c *Config) { c.Storage.DataFile = "" }, true},
		{"postgres without database", func(c *Config) { c.Storage.Driver = StorageDriverPostgres }, true},
		{"postgres with database", func(c *Config) {
			c.Storage.Driver = StorageDriverPostgres
			c.Database.Database = "catalog"
		}, false},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = StorageDriverS3 }, true},
		{"s3 with bucket", func(c *Config) {
			c.Storage.Driver = StorageDriverS3
			c.S3.Bucket = "catalog"
		}, false},
		{"rate limit without redis", func(c *Config) { c.RateLimit.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Storage: StorageConfig{Driver: StorageDriverFile, DataFile: "data/products.json"},
				S3:      S3Config{Key: "catalog/products.json"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "catalog", Schema: "public", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/catalog?sslmode=disable&search_path=public", d.DSN())
}
