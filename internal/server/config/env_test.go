package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnvFile(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	envFile = path
	t.Cleanup(func() { envFile = ".env" })
}

func TestParseEnv_ProcessVariables(t *testing.T) {
	withEnvFile(t, "")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("EMAIL_USER", "me@gmail.com")
	t.Setenv("EMAIL_PASS", "app-pass")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("OTP_VALIDITY", "20m")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, "me@gmail.com", cfg.MailUser)
	assert.Equal(t, "me@gmail.com", cfg.Sender())
	assert.Equal(t, "app-pass", cfg.MailPassword)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, 20*time.Minute, cfg.OtpValidityDuration)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
}

func TestParseEnv_HTTPAddrWinsOverPort(t *testing.T) {
	withEnvFile(t, "")
	t.Setenv("PORT", "8080")
	t.Setenv("HTTP_ADDR", "127.0.0.1:7000")

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("EMAIL_USER", "process@example.com")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("MAIL_PROVIDER"))

	withEnvFile(t, "JWT_SECRET=file-secret\nMAIL_PROVIDER=log\nEMAIL_USER=file@example.com\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("JWT_SECRET")
		_ = os.Unsetenv("MAIL_PROVIDER")
	})

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Equal(t, MailLog, cfg.MailProvider)
	assert.Equal(t, "process@example.com", cfg.MailUser, "process environment wins over .env")
}

func TestParseEnv_BadValuesPanic(t *testing.T) {
	withEnvFile(t, "")

	t.Run("port", func(t *testing.T) {
		t.Setenv("SMTP_PORT", "abc")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("MAIL_TIMEOUT", "ten seconds")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
	t.Run("bool", func(t *testing.T) {
		t.Setenv("METRICS_ENABLED", "maybe")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}

func TestLoadConfig_KeepsSubMinuteDurationsFromEnv(t *testing.T) {
	withEnvFile(t, "")
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"weynak", "-s", "k"}

	t.Setenv("OTP_VALIDITY", "90s")
	t.Setenv("TOKEN_VALIDITY", "30s")

	cfg := LoadConfig()

	assert.Equal(t, 90*time.Second, cfg.OtpValidityDuration)
	assert.Equal(t, 30*time.Second, cfg.TokenValidityDuration)
	assert.Equal(t, "k", cfg.SecretKey)
}

func TestLoadConfig_MinuteFlagsOverrideEnv(t *testing.T) {
	withEnvFile(t, "")
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"weynak", "-o", "3"}

	t.Setenv("OTP_VALIDITY", "90s")
	t.Setenv("TOKEN_VALIDITY", "30s")

	cfg := LoadConfig()

	assert.Equal(t, 3*time.Minute, cfg.OtpValidityDuration)
	assert.Equal(t, 30*time.Second, cfg.TokenValidityDuration)
}
