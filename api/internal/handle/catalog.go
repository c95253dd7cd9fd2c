package handle

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"multa-analyzer/api/internal/catalog"
	"multa-analyzer/api/internal/ocr"
)

func (h *Handle) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(catalog.Services()))
}

func (h *Handle) ListBadges(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(catalog.Badges()))
}

// Consulta answers the plate lookup screen with canned data.
func (h *Handle) Consulta(c *gin.Context) {
	placa := catalog.NormalizePlate(strings.TrimSpace(c.Param("placa")))
	if placa == "" {
		c.JSON(http.StatusBadRequest, errorResponse(ocr.CodeInvalidInput, "plate is required", ""))
		return
	}
	c.JSON(http.StatusOK, successResponse(catalog.Lookup(placa)))
}
