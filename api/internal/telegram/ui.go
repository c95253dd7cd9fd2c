package telegram

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"multa-analyzer/api/internal/ocr"
)

const (
	cbServicos = "nav_servicos"
	cbBadges   = "nav_badges"
	cbUpload   = "nav_upload"
)

func makeNavKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Nova análise", cbUpload),
			tgbotapi.NewInlineKeyboardButtonData("Serviços", cbServicos),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Conquistas", cbBadges),
		),
	)
	return &kb
}

// userMessage maps an analysis error to text a user can act on.
func userMessage(err error) string {
	var e *ocr.Error
	if !errors.As(err, &e) {
		return "Não foi possível processar a imagem. Tente novamente em instantes."
	}
	switch e.Code {
	case ocr.CodeInvalidInput:
		return "Imagem inválida. Envie a foto da notificação novamente."
	case ocr.CodeEmptyResponse:
		return "O modelo não retornou resultado. Tente novamente."
	case ocr.CodeMalformedResponse:
		return "Não foi possível interpretar a resposta do modelo. Tente uma foto mais nítida."
	default:
		return "Falha ao analisar a multa. Tente novamente em instantes."
	}
}

// esc escapes legacy Markdown.
func esc(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}
