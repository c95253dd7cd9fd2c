package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port string

	LogLevel string

	// LLMProvider selects the engine behind the analysis service: "openai" or "gemini".
	LLMProvider  string
	OpenAIAPIKey string
	GeminiAPIKey string

	MaxRequestBodyBytes int64
	CORSAllowedOrigins  []string

	// bot
	TelegramBotToken string
	WebhookURL       string
	AnalyzerURL      string
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt64Env(k string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", k, v)
	}
	return n, nil
}

func getListEnv(k, def string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(k, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadDotEnv reads .env into the process environment when the file exists.
// Variables already set win over the file.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:     getEnv("HOST", "0.0.0.0"),
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", "*"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
		AnalyzerURL:      getEnv("ANALYZER_URL", ""),
	}

	// a 10MB photo grows by a third once base64-encoded
	maxBody, err := getInt64Env("MAX_REQUEST_BODY_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxRequestBodyBytes = maxBody

	p, err := strconv.Atoi(cfg.Port)
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_BYTES must be > 0 (got %d)", cfg.MaxRequestBodyBytes)
	}
	return cfg, nil
}

// ValidateServer checks the keys the analysis server needs.
func (c *Config) ValidateServer() error {
	switch c.LLMProvider {
	case "openai", "gpt":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("missing required env OPENAI_API_KEY")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("missing required env GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER: %q (use openai or gemini)", c.LLMProvider)
	}
	return nil
}

// ValidateBot checks the keys the Telegram front-end needs.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("missing required env TELEGRAM_BOT_TOKEN")
	}
	if c.AnalyzerURL == "" {
		return c.ValidateServer()
	}
	return nil
}
