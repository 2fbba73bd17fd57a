package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORAGE_BACKEND", "MinIO")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAIL_SIMPLE_MODE", "true")
	t.Setenv("STATUS_POLICY", "Strict")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.True(t, cfg.Mail.SimpleMode)
	assert.True(t, cfg.Mail.EmbedFooter)
	assert.Equal(t, "strict", cfg.Workflow.StatusPolicy)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "RESUME_DIR", "STATUS_POLICY", "SMTP_HOST", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "uploads/resumes", cfg.Storage.ResumeDir)
	assert.False(t, cfg.Storage.CleanupOnDelete)
	assert.Equal(t, "permissive", cfg.Workflow.StatusPolicy)
	assert.Empty(t, cfg.Mail.Host)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "not/a-zone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvList(key, nil))

	t.Setenv(key, " , ")
	assert.Equal(t, []string{"x"}, getEnvList(key, []string{"x"}))
}
