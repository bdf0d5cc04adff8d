package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolx/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Extraction.MinTextThreshold)
	assert.True(t, cfg.Extraction.OCREnabled)
	assert.Equal(t, 300, cfg.Extraction.OCRDPI)
	assert.Equal(t, "eng", cfg.Extraction.OCRLanguage)
	assert.Equal(t, 6, cfg.Extraction.OCRPageSegMode)
	assert.Equal(t, 5*time.Minute, cfg.Extraction.DocumentTimeout)
	assert.Equal(t, 2*time.Second, cfg.Extraction.MatchTimeout)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.False(t, cfg.JWT.Enabled)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Zero(t, cfg.Queue.StaleClaimAfter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOLX_EXTRACTION_MIN_TEXT_THRESHOLD", "250")
	t.Setenv("BOLX_EXTRACTION_OCR_ENABLED", "false")
	t.Setenv("BOLX_JWT_ENABLED", "true")
	t.Setenv("BOLX_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Extraction.MinTextThreshold)
	assert.False(t, cfg.Extraction.OCREnabled)
	assert.True(t, cfg.JWT.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsInvalidThreshold(t *testing.T) {
	t.Setenv("BOLX_EXTRACTION_MIN_TEXT_THRESHOLD", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestExtractionConfig_Validate(t *testing.T) {
	valid := config.ExtractionConfig{MinTextThreshold: 100, Workers: 1}
	assert.NoError(t, valid.Validate())

	noWorkers := valid
	noWorkers.Workers = 0
	assert.Error(t, noWorkers.Validate())

	negativePages := valid
	negativePages.MaxPages = -1
	assert.Error(t, negativePages.Validate())
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", db.DSN())
}

func TestQueueConfig_StaleAfter(t *testing.T) {
	tests := []struct {
		name       string
		configured time.Duration
		want       time.Duration
	}{
		{"unset doubles job timeout", 0, 20 * time.Minute},
		{"shorter than job timeout is raised", 5 * time.Minute, 20 * time.Minute},
		{"equal to job timeout is raised", 10 * time.Minute, 20 * time.Minute},
		{"longer window kept", 45 * time.Minute, 45 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := config.QueueConfig{StaleClaimAfter: tt.configured}
			assert.Equal(t, tt.want, q.StaleAfter(10*time.Minute))
		})
	}
}

func TestLoad_StaleClaimAfterOverride(t *testing.T) {
	t.Setenv("BOLX_QUEUE_STALE_CLAIM_AFTER", "45m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.Queue.StaleClaimAfter)
}
