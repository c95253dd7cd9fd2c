package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"multa-analyzer/api/internal/catalog"
	"multa-analyzer/api/internal/ocr"
)

func TestFormatBRL(t *testing.T) {
	cases := map[float64]string{
		0.5:     "R$ 0,50",
		195.23:  "R$ 195,23",
		1234.5:  "R$ 1.234,50",
		1234567: "R$ 1.234.567,00",
		-88.38:  "-R$ 88,38",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatBRL(in), "%v", in)
	}
}

func TestFormatAnalysis_Typed(t *testing.T) {
	out := formatAnalysis(ocr.Analysis{
		"tipo":        "Excesso de velocidade",
		"infracao":    "745-50",
		"valor":       195.23,
		"pontos":      5,
		"placa":       "ABC1D23",
		"gravidade":   "gravissima",
		"observacoes": "radar_fixo",
	})
	assert.Contains(t, out, "*Tipo:* Excesso de velocidade")
	assert.Contains(t, out, "*Valor:* R$ 195,23")
	assert.Contains(t, out, "*Pontos:* 5")
	assert.Contains(t, out, "🔴 Gravíssima")
	assert.Contains(t, out, "*Observações:* radar\\_fixo")
	assert.NotContains(t, out, "\n_", "no italic entity around escaped text")
	assert.NotContains(t, out, "Condutor")
}

func TestFormatAnalysis_UnknownSeverityShownAsSent(t *testing.T) {
	out := formatAnalysis(ocr.Analysis{"tipo": "x", "gravidade": "altissima"})
	assert.Contains(t, out, "⚪ altissima")
}

func TestFormatAnalysis_FallsBackToRaw(t *testing.T) {
	// "valor" as a string does not fit the typed view
	out := formatAnalysis(ocr.Analysis{"tipo": "Estacionamento", "valor": "R$ 130,16", "extra": true})
	assert.Contains(t, out, "*Tipo:* Estacionamento")
	assert.Contains(t, out, "*Valor:* R$ 130,16")
	assert.Contains(t, out, "*extra:* true")
}

func TestFormatConsulta(t *testing.T) {
	out := formatConsulta(catalog.Lookup("abc-1234"))
	assert.Contains(t, out, "*Consulta ABC1234*")
	assert.Contains(t, out, "3 multas")
	assert.Contains(t, out, "em\\_recurso")
	assert.Contains(t, out, "Dados demonstrativos")
}

func TestFormatBadges(t *testing.T) {
	out := formatBadges(catalog.Badges())
	assert.Contains(t, out, "✅ *Consultor Iniciante*")
	assert.Contains(t, out, "⬜ *Mestre das Multas*: Analise 50 multas (68%)")
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, userMessage(&ocr.Error{Code: ocr.CodeMalformedResponse, Message: "x"}), "interpretar")
	assert.Contains(t, userMessage(&ocr.Error{Code: ocr.CodeUpstreamFailure, Message: "x"}), "Falha ao analisar")
	// foreign errors may carry URLs or upstream bodies; only a generic text is shown
	foreign := userMessage(errors.New(`analyzer 502: <html>bad gateway</html>`))
	assert.NotContains(t, foreign, "html")
	assert.Contains(t, foreign, "Tente novamente")
	assert.Equal(t, foreign, userMessage(nil))
}
