package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/ocr"
)

type AnalyzeRequest struct {
	ImageReference string `json:"imageReference"`
	// ImageURL is the key older web clients send.
	ImageURL string `json:"imageUrl,omitempty"`
}

func (r AnalyzeRequest) Reference() string {
	if s := strings.TrimSpace(r.ImageReference); s != "" {
		return s
	}
	return strings.TrimSpace(r.ImageURL)
}

type AnalyzeResponse struct {
	Success  bool         `json:"success"`
	Analysis ocr.Analysis `json:"analysis"`
}

func (h *Handle) AnalyzeMulta(c *gin.Context) {
	log := h.log.With().Str("request_id", c.GetString(requestIDKey)).Logger()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse(ocr.CodeInvalidInput, "request body too large", ""))
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(ocr.CodeInvalidInput, "invalid request body", err.Error()))
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), req.Reference())
	if err != nil {
		h.handleError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Analysis: analysis})
}

func (h *Handle) handleError(c *gin.Context, log zerolog.Logger, err error) {
	var e *ocr.Error
	if !errors.As(err, &e) {
		e = &ocr.Error{Code: ocr.CodeUpstreamFailure, Message: "analysis failed", Details: err.Error()}
	}

	if e.Code == ocr.CodeInvalidInput {
		c.JSON(http.StatusBadRequest, errorResponse(e.Code, e.Message, e.Details))
		return
	}

	details := e.Details
	if details == "" {
		details = e.Message
	}
	log.Error().Err(err).Str("code", string(e.Code)).Msg("failed to analyze notice")
	c.JSON(http.StatusInternalServerError, errorResponse(e.Code, "failed to analyze notice", details))
}
