package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.AIBackend)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("AI_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, AIClaude, cfg.AIBackend)
	assert.Equal(t, "sk-test123", cfg.Credential())
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantcare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listenAddr: ":7000"
geminiAPIKey: from-file
sessionBackend: redis
redisAddr: cache:6379
`), 0o600))
	t.Setenv("PLANTCARE_CONFIG", path)
	t.Setenv("REDIS_ADDR", "env-cache:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "from-file", cfg.Credential())
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, "env-cache:6379", cfg.RedisAddr)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiChatModel)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PLANTCARE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PHOTO_BACKEND", "floppy")

	_, err := Load()
	assert.ErrorContains(t, err, "PHOTO_BACKEND")
}

func TestTestModeSelectsStub(t *testing.T) {
	t.Setenv("PLANTCARE_TEST_MODE", "1")
	t.Setenv("AI_BACKEND", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AIStub, cfg.AIBackend)
	assert.Equal(t, "stub", cfg.Credential())
}
