// Package catalog holds the static data behind the marketing screens:
// the service list, the gamification badges and the canned ticket lookup.
// Nothing here talks to a backend.
package catalog

import (
	"strings"

	"multa-analyzer/api/internal/ocr"
)

type Servico struct {
	ID        string  `json:"id"`
	Titulo    string  `json:"titulo"`
	Descricao string  `json:"descricao"`
	Icone     string  `json:"icone"`
	Preco     float64 `json:"preco"`
	Popular   bool    `json:"popular,omitempty"`
}

type UserBadge struct {
	ID          string `json:"id"`
	Nome        string `json:"nome"`
	Descricao   string `json:"descricao"`
	Icone       string `json:"icone"`
	Conquistado bool   `json:"conquistado"`
	Progresso   *int   `json:"progresso,omitempty"`
}

type TicketStatus string

const (
	StatusPendente  TicketStatus = "pendente"
	StatusPago      TicketStatus = "pago"
	StatusEmRecurso TicketStatus = "em_recurso"
)

type Ticket struct {
	ID     string       `json:"id"`
	Tipo   string       `json:"tipo"`
	Valor  float64      `json:"valor"`
	Pontos int          `json:"pontos"`
	Data   string       `json:"data"`
	Status TicketStatus `json:"status"`
}

// Consulta is the canned answer of the plate lookup screen.
type Consulta struct {
	Placa         string   `json:"placa"`
	Quantidade    int      `json:"quantidade"`
	ValorTotal    float64  `json:"valorTotal"`
	PontosTotal   int      `json:"pontosTotal"`
	Multas        []Ticket `json:"multas"`
	Demonstrativo bool     `json:"demonstrativo"`
}

func progress(n int) *int { return &n }

var servicos = []Servico{
	{ID: "1", Titulo: "Análise de Multa", Descricao: "Análise completa com IA da sua notificação", Icone: "file-search", Preco: 29.9, Popular: true},
	{ID: "2", Titulo: "Identificação de Condutor", Descricao: "Indicação correta do condutor responsável", Icone: "user-check", Preco: 49.9},
	{ID: "3", Titulo: "Recurso de Multa", Descricao: "Elaboração de recurso administrativo", Icone: "briefcase", Preco: 199.9, Popular: true},
	{ID: "4", Titulo: "Consulta Completa", Descricao: "Consulta de todas as multas do veículo", Icone: "search", Preco: 39.9},
}

var badges = []UserBadge{
	{ID: "1", Nome: "Consultor Iniciante", Descricao: "Realize sua primeira consulta", Icone: "target", Conquistado: true, Progresso: progress(100)},
	{ID: "2", Nome: "Analista Expert", Descricao: "Analise 10 multas", Icone: "award", Conquistado: true, Progresso: progress(100)},
	{ID: "3", Nome: "Mestre das Multas", Descricao: "Analise 50 multas", Icone: "shield", Progresso: progress(68)},
	{ID: "4", Nome: "Velocista", Descricao: "Consulte 5 vezes em um dia", Icone: "zap", Progresso: progress(40)},
}

var tickets = []Ticket{
	{ID: "1", Tipo: "Excesso de velocidade", Valor: 195.23, Pontos: 5, Data: "15/12/2024", Status: StatusPendente},
	{ID: "2", Tipo: "Estacionamento irregular", Valor: 130.16, Pontos: 3, Data: "10/12/2024", Status: StatusPendente},
	{ID: "3", Tipo: "Avanço de sinal vermelho", Valor: 293.47, Pontos: 7, Data: "05/12/2024", Status: StatusEmRecurso},
}

// Services returns a copy of the service list.
func Services() []Servico { return append([]Servico(nil), servicos...) }

// Badges returns a copy of the badge list.
func Badges() []UserBadge { return append([]UserBadge(nil), badges...) }

// Lookup returns the canned tickets for any plate. The plate is only normalized and echoed.
func Lookup(placa string) Consulta {
	c := Consulta{
		Placa:         NormalizePlate(placa),
		Multas:        append([]Ticket(nil), tickets...),
		Demonstrativo: true,
	}
	for _, t := range c.Multas {
		c.Quantidade++
		c.ValorTotal += t.Valor
		c.PontosTotal += t.Pontos
	}
	return c
}

// NormalizePlate upper-cases a plate and drops separators ("abc-1234" -> "ABC1234").
func NormalizePlate(p string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(p) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SeverityLabel is the display label of a severity; unknown values are shown as sent.
func SeverityLabel(s ocr.Severity) string {
	switch s {
	case ocr.SeverityLeve:
		return "Leve"
	case ocr.SeverityMedia:
		return "Média"
	case ocr.SeverityGrave:
		return "Grave"
	case ocr.SeverityGravissima:
		return "Gravíssima"
	}
	return string(s)
}
