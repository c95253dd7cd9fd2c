package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"multa-analyzer/api/internal/client"
)

const maxPhotoBytes = 20 << 20

func (r *Router) acceptImage(ctx context.Context, cid int64, fileID, mime string) {
	fileURL, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.SendError(cid, fmt.Errorf("get file: %w", withoutURL(err)))
		return
	}
	dl := r.Download
	if dl == nil {
		dl = download
	}
	img, err := dl(ctx, fileURL)
	if err != nil {
		r.SendError(cid, fmt.Errorf("download: %w", withoutURL(err)))
		return
	}

	r.send(cid, "🔎 Analisando multa…")
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(cid, tgbotapi.ChatTyping))

	st, outcome := r.session(cid).HandleUpload(ctx, bytes.NewReader(img), mime)
	switch outcome {
	case client.OutcomeStored:
		r.sendWithKeyboard(cid, formatAnalysis(st.Analysis), makeNavKeyboard())
	case client.OutcomeEmpty:
		r.send(cid, "Não foi possível extrair dados desta imagem. Tente outra foto, mais nítida.")
	case client.OutcomeFailed:
		r.SendError(cid, st.LastErr)
	case client.OutcomeStale:
		// a newer photo of this chat is being answered
	}
}

func download(ctx context.Context, fileURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, withoutURL(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, withoutURL(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, withoutURL(err)
	}
	if len(b) > maxPhotoBytes {
		return nil, fmt.Errorf("photo larger than %d bytes", maxPhotoBytes)
	}
	return b, nil
}

// withoutURL drops the request URL from transport errors. Telegram file and
// API URLs carry the bot token.
func withoutURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
