package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenflow/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "lenflow_db", cfg.DB.Name)
	assert.Equal(t, "lenflow-intake", cfg.S3.Bucket)
	assert.Equal(t, int64(50), cfg.S3.MaxFileSizeMB)
	assert.Equal(t, 120, cfg.Extraction.TimeoutSecs)
	assert.Equal(t, 300, cfg.Sweeper.PollIntervalSecs)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LENFLOW_DB_HOST", "db.internal")
	t.Setenv("LENFLOW_S3_BUCKET", "prod-intake")
	t.Setenv("LENFLOW_CORS_ALLOWED_ORIGINS", "https://rm.bank.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "prod-intake", cfg.S3.Bucket)
	assert.Equal(t, []string{"https://rm.bank.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestDSN(t *testing.T) {
	d := config.DBConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p",
		Name: "lenflow_db", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/lenflow_db?sslmode=disable", d.DSN())
}
