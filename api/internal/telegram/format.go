package telegram

import (
	"encoding/json"
	"fmt"
	"strings"

	"multa-analyzer/api/internal/catalog"
	"multa-analyzer/api/internal/ocr"
)

var fieldLabels = map[string]string{
	"tipo":        "Tipo",
	"infracao":    "Infração",
	"valor":       "Valor",
	"pontos":      "Pontos",
	"local":       "Local",
	"data":        "Data",
	"placa":       "Placa",
	"veiculo":     "Veículo",
	"condutor":    "Condutor",
	"observacoes": "Observações",
	"gravidade":   "Gravidade",
}

func formatAnalysis(a ocr.Analysis) string {
	m, err := a.Multa()
	if err != nil {
		return formatRaw(a)
	}

	var b strings.Builder
	b.WriteString("*Análise da multa*\n\n")
	line := func(label, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		fmt.Fprintf(&b, "*%s:* %s\n", label, esc(v))
	}
	line("Tipo", m.Tipo)
	line("Infração", m.Infracao)
	if m.Valor > 0 {
		line("Valor", formatBRL(m.Valor))
	}
	if m.Pontos > 0 {
		line("Pontos", fmt.Sprint(m.Pontos))
	}
	line("Local", m.Local)
	line("Data", m.Data)
	line("Placa", m.Placa)
	line("Veículo", m.Veiculo)
	line("Condutor", m.Condutor)
	if m.Gravidade != "" {
		line("Gravidade", severityIcon(m.Gravidade)+" "+catalog.SeverityLabel(m.Gravidade))
	}
	line("Observações", m.Observacoes)
	return b.String()
}

// formatRaw lists the analysis fields as sent, for results that do not fit the typed view.
func formatRaw(a ocr.Analysis) string {
	var b strings.Builder
	b.WriteString("*Análise da multa*\n\n")
	seen := map[string]bool{}
	for _, k := range ocr.PromptFields {
		if v, ok := a[k]; ok {
			seen[k] = true
			fmt.Fprintf(&b, "*%s:* %s\n", fieldLabels[k], esc(rawValue(v)))
		}
	}
	for k, v := range a {
		if !seen[k] {
			fmt.Fprintf(&b, "*%s:* %s\n", esc(k), esc(rawValue(v)))
		}
	}
	return b.String()
}

func rawValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	default:
		bs, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(bs)
	}
}

func severityIcon(s ocr.Severity) string {
	switch s {
	case ocr.SeverityLeve:
		return "🟢"
	case ocr.SeverityMedia:
		return "🟡"
	case ocr.SeverityGrave:
		return "🟠"
	case ocr.SeverityGravissima:
		return "🔴"
	}
	return "⚪"
}

// formatBRL renders 1234.5 as "R$ 1.234,50".
func formatBRL(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

func formatServices(list []catalog.Servico) string {
	var b strings.Builder
	b.WriteString("*Serviços*\n\n")
	for _, s := range list {
		fmt.Fprintf(&b, "• *%s* %s\n  %s\n", esc(s.Titulo), formatBRL(s.Preco), esc(s.Descricao))
		if s.Popular {
			b.WriteString("  ⭐ Popular\n")
		}
	}
	return b.String()
}

func formatBadges(list []catalog.UserBadge) string {
	var b strings.Builder
	b.WriteString("*Conquistas*\n\n")
	for _, u := range list {
		mark := "⬜"
		if u.Conquistado {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s *%s*: %s", mark, esc(u.Nome), esc(u.Descricao))
		if !u.Conquistado && u.Progresso != nil {
			fmt.Fprintf(&b, " (%d%%)", *u.Progresso)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatConsulta(c catalog.Consulta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Consulta %s*\n\n", esc(c.Placa))
	for _, t := range c.Multas {
		fmt.Fprintf(&b, "• %s, %s, %d pts, %s (%s)\n", esc(t.Tipo), formatBRL(t.Valor), t.Pontos, t.Data, esc(string(t.Status)))
	}
	fmt.Fprintf(&b, "\n*Total:* %d multas, %s, %d pontos\n", c.Quantidade, formatBRL(c.ValorTotal), c.PontosTotal)
	if c.Demonstrativo {
		b.WriteString("_Dados demonstrativos._\n")
	}
	return b.String()
}
