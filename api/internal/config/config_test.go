package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOST", "PORT", "LOG_LEVEL", "LLM_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"MAX_REQUEST_BODY_BYTES", "CORS_ALLOWED_ORIGINS", "TELEGRAM_BOT_TOKEN", "WEBHOOK_URL", "ANALYZER_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.ServerAddress())
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, int64(16<<20), cfg.MaxRequestBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_REQUEST_BODY_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxRequestBodyBytes)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid PORT")

	clearEnv(t)
	t.Setenv("MAX_REQUEST_BODY_BYTES", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "MAX_REQUEST_BODY_BYTES")

	clearEnv(t)
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10MB")
	_, err = Load()
	assert.ErrorContains(t, err, `invalid MAX_REQUEST_BODY_BYTES: "10MB"`)
}

func TestValidate(t *testing.T) {
	cfg := &Config{LLMProvider: "openai"}
	assert.ErrorContains(t, cfg.ValidateServer(), "OPENAI_API_KEY")
	cfg.OpenAIAPIKey = "k"
	assert.NoError(t, cfg.ValidateServer())

	cfg = &Config{LLMProvider: "gemini"}
	assert.ErrorContains(t, cfg.ValidateServer(), "GEMINI_API_KEY")
	cfg = &Config{LLMProvider: "deepseek"}
	assert.ErrorContains(t, cfg.ValidateServer(), "LLM_PROVIDER")

	bot := &Config{LLMProvider: "openai", AnalyzerURL: "http://localhost:8000"}
	assert.ErrorContains(t, bot.ValidateBot(), "TELEGRAM_BOT_TOKEN")
	bot.TelegramBotToken = "t"
	assert.NoError(t, bot.ValidateBot())
	bot.AnalyzerURL = ""
	assert.ErrorContains(t, bot.ValidateBot(), "OPENAI_API_KEY")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("OPENAI_API_KEY=from-file\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "9000")
	// godotenv never overrides a present variable, even an empty one
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	require.NoError(t, LoadDotEnv(p))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.OpenAIAPIKey)
	assert.Equal(t, "9000", cfg.Port)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
