package handle

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/ocr"
)

// Analyzer is the analysis service seen from the HTTP boundary.
type Analyzer interface {
	Analyze(ctx context.Context, imageRef string) (ocr.Analysis, error)
}

type Handle struct {
	svc Analyzer
	log zerolog.Logger
}

func New(svc Analyzer, log zerolog.Logger) *Handle {
	return &Handle{
		svc: svc,
		log: log,
	}
}

func (h *Handle) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	{
		api.POST("/analyze-multa", h.AnalyzeMulta)
		api.GET("/catalog/services", h.ListServices)
		api.GET("/catalog/badges", h.ListBadges)
		api.GET("/consulta/:placa", h.Consulta)
	}
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Code    ocr.ErrorCode `json:"code"`
	Details string        `json:"details,omitempty"`
}

func errorResponse(code ocr.ErrorCode, message, details string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code, Details: details}
}

func successResponse(data any) gin.H {
	return gin.H{
		"data": data,
	}
}
