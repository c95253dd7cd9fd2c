package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"multa-analyzer/api/internal/client"
	"multa-analyzer/api/internal/config"
	"multa-analyzer/api/internal/container"
	"multa-analyzer/api/internal/httpserver"
	"multa-analyzer/api/internal/logger"
	"multa-analyzer/api/internal/metrics"
	"multa-analyzer/api/internal/telegram"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.New(cfg.LogLevel)
	if err := cfg.ValidateBot(); err != nil {
		lg.Fatal().Err(err).Msg("invalid config")
	}

	metrics.Register()

	// remote analysis service when ANALYZER_URL is set, otherwise in-process
	var analyzer client.Analyzer
	if cfg.AnalyzerURL != "" {
		analyzer = client.NewAPIClient(cfg.AnalyzerURL)
		lg.Info().Str("url", cfg.AnalyzerURL).Msg("using remote analyzer")
	} else {
		svc, err := container.NewAnalysisService(cfg, lg)
		if err != nil {
			lg.Fatal().Err(err).Msg("init analysis service")
		}
		analyzer = svc
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		lg.Fatal().Err(err).Msg("telegram")
	}
	bot.Debug = false

	r := &telegram.Router{
		Bot:      bot,
		Analyzer: analyzer,
		Log:      lg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ListenForWebhook registers on DefaultServeMux, so everything is served from it
	httpserver.Register(http.DefaultServeMux, "ok")
	addr := cfg.ServerAddress()

	handle := func(upd tgbotapi.Update) {
		go r.HandleUpdate(ctx, upd)
	}

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(ctx, lg, addr, bot, webhookURL, handle)
	} else {
		startPollingMode(ctx, lg, addr, bot, handle)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(ctx context.Context, lg zerolog.Logger, addr string, bot *tgbotapi.BotAPI, baseURL string, handle func(tgbotapi.Update)) {
	// secret path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		lg.Fatal().Err(err).Msg("webhook")
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		lg.Fatal().Err(err).Msg("set webhook")
	}

	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			handle(upd)
		}
		lg.Info().Msg("webhook updates channel closed")
	}()

	lg.Info().Str("path", path).Msg("webhook mode")
	if err := httpserver.Serve(ctx, addr, http.DefaultServeMux, lg); err != nil {
		lg.Fatal().Err(err).Msg("http")
	}
}

func startPollingMode(ctx context.Context, lg zerolog.Logger, addr string, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	// health server; not required for polling
	go func() {
		if err := httpserver.Serve(ctx, addr, http.DefaultServeMux, lg); err != nil {
			lg.Error().Err(err).Msg("health server")
		}
	}()

	lg.Info().Msg("polling mode")
	runPolling(ctx, lg, bot, handle)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func clampDelay(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// updateSource is the part of *tgbotapi.BotAPI the polling loop uses.
type updateSource interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

func runPolling(ctx context.Context, lg zerolog.Logger, bot updateSource, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			lg.Info().Msg("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling, seconds

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := clampDelay(retryDelayFromError(err), baseDelay, maxDelay)
			lg.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// shortHash is FNV-1a of s as 16 hex chars.
func shortHash(s string) string {
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
