package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/catalog"
	"multa-analyzer/api/internal/client"
)

// BotAPI is the part of *tgbotapi.BotAPI the router uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot      BotAPI
	Analyzer client.Analyzer
	Log      zerolog.Logger

	// Download fetches a Telegram file URL; nil means the package default.
	Download func(ctx context.Context, url string) ([]byte, error)

	// SessionTTL is how long an idle chat keeps its session; 0 means 24h.
	SessionTTL time.Duration
	Now        func() time.Time

	sessions  sync.Map // chatID -> *chatSession
	lastSweep atomic.Int64
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message

	if msg.IsCommand() {
		r.HandleCommand(msg)
		return
	}

	if len(msg.Photo) > 0 {
		ph := msg.Photo[len(msg.Photo)-1]
		r.acceptImage(ctx, msg.Chat.ID, ph.FileID, "")
		return
	}
	if msg.Document != nil {
		if !strings.HasPrefix(msg.Document.MimeType, "image/") {
			r.send(msg.Chat.ID, "Envie uma foto da multa (PNG ou JPG).")
			return
		}
		r.acceptImage(ctx, msg.Chat.ID, msg.Document.FileID, msg.Document.MimeType)
		return
	}

	if msg.Text != "" {
		r.send(msg.Chat.ID, "Envie a foto da notificação de multa para análise. Comandos: /servicos, /badges, /consulta <placa>")
	}
}

func (r *Router) HandleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.sendWithKeyboard(cid, "Envie a foto da notificação de multa: eu extraio tipo, valor, pontos, local e gravidade.", makeNavKeyboard())
	case "health":
		r.send(cid, "✅ OK")
	case "servicos":
		r.session(cid).Navigate(client.ScreenServicos)
		r.sendMarkdown(cid, formatServices(catalog.Services()))
	case "badges":
		r.sendMarkdown(cid, formatBadges(catalog.Badges()))
	case "consulta":
		placa := catalog.NormalizePlate(msg.CommandArguments())
		if placa == "" {
			r.send(cid, "Uso: /consulta ABC1D23")
			return
		}
		r.session(cid).Navigate(client.ScreenConsulta)
		r.sendMarkdown(cid, formatConsulta(catalog.Lookup(placa)))
	case "identificacao":
		r.session(cid).Navigate(client.ScreenIdentificacao)
		r.send(cid, identificacaoText)
	case "ultima":
		st := r.session(cid).State()
		if st.Analysis == nil {
			r.send(cid, "Nenhuma análise ainda. Envie a foto da multa.")
			return
		}
		r.sendMarkdown(cid, formatAnalysis(st.Analysis))
	default:
		r.send(cid, "Comando desconhecido")
	}
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	switch cb.Data {
	case cbServicos:
		r.session(cid).Navigate(client.ScreenServicos)
		r.sendMarkdown(cid, formatServices(catalog.Services()))
	case cbBadges:
		r.sendMarkdown(cid, formatBadges(catalog.Badges()))
	case cbUpload:
		r.session(cid).Navigate(client.ScreenUpload)
		r.send(cid, "Envie a foto da multa.")
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
}

func (r *Router) sendMarkdown(chatID int64, text string) {
	r.sendWithKeyboard(chatID, text, nil)
}

// sendWithKeyboard sends Markdown and resends as plain text when Telegram
// cannot parse the entities.
func (r *Router) sendWithKeyboard(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := r.Bot.Send(msg)
	if err == nil {
		return
	}
	r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram markdown send failed, retrying as plain text")
	msg.ParseMode = ""
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
	}
}

// SendError logs err and tells the user what went wrong in general terms.
// The error text itself never reaches the chat.
func (r *Router) SendError(chatID int64, err error) {
	r.Log.Error().Err(err).Int64("chat_id", chatID).Msg("request failed")
	r.send(chatID, fmt.Sprintf("❌ %s", userMessage(err)))
}

const identificacaoText = "A identificação do condutor deve ser feita em até 30 dias após o recebimento da notificação. " +
	"Tenha em mãos nome, CPF e número da CNH do condutor."
