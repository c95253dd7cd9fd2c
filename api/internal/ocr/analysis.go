package ocr

import (
	"encoding/json"
	"fmt"
)

// Analysis is the JSON object returned by the model, kept exactly as parsed.
type Analysis map[string]any

// Severity of a violation as the prompt asks for it.
type Severity string

const (
	SeverityLeve       Severity = "leve"       // low
	SeverityMedia      Severity = "media"      // medium
	SeverityGrave      Severity = "grave"      // high
	SeverityGravissima Severity = "gravissima" // critical
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLeve, SeverityMedia, SeverityGrave, SeverityGravissima:
		return true
	}
	return false
}

// Multa is a typed view of an Analysis for renderers.
type Multa struct {
	Tipo        string   `json:"tipo"`
	Infracao    string   `json:"infracao"`
	Valor       float64  `json:"valor"`
	Pontos      int      `json:"pontos"`
	Local       string   `json:"local"`
	Data        string   `json:"data"`
	Placa       string   `json:"placa"`
	Veiculo     string   `json:"veiculo"`
	Condutor    string   `json:"condutor,omitempty"`
	Observacoes string   `json:"observacoes"`
	Gravidade   Severity `json:"gravidade"`
}

// Multa decodes the analysis into the typed view. It fails when a field has
// the wrong JSON type, e.g. "valor" sent as a string.
func (a Analysis) Multa() (Multa, error) {
	var m Multa
	b, err := json.Marshal(a)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return Multa{}, fmt.Errorf("analysis: %w", err)
	}
	return m, nil
}
