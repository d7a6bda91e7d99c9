package cmd

import (
	"fmt"
	"strings"

	carteira "github.com/GuilhermeXav1er/hackaton"
)

// renderResult turns a wire result into terminal markdown. The mensagem is
// always shown; structured fields get a table or list when present.
func renderResult(res carteira.Result) string {
	var b strings.Builder

	if res.Status == carteira.StatusSucesso {
		fmt.Fprintf(&b, "%s\n", res.Mensagem)
	} else {
		fmt.Fprintf(&b, "**Erro:** %s\n", res.Mensagem)
	}

	if res.NovoSaldo != nil {
		fmt.Fprintf(&b, "\n- Novo saldo: %s\n", res.NovoSaldo)
	}
	if res.Custo != nil {
		fmt.Fprintf(&b, "- Custo executado: %s\n", res.Custo)
	}
	if res.Recebido != nil {
		fmt.Fprintf(&b, "- Valor recebido: %s\n", res.Recebido)
	}
	if res.IDOperacao != "" {
		fmt.Fprintf(&b, "- Operação: `%s`\n", res.IDOperacao)
	}

	if res.Carteira != nil {
		renderCarteira(&b, res.Carteira)
	}
	if len(res.Perguntas) > 0 {
		renderPerguntas(&b, res.Perguntas)
	}
	if len(res.Sugestoes) > 0 {
		renderSugestoes(&b, res.Sugestoes)
	}
	return b.String()
}

func renderCarteira(b *strings.Builder, l *carteira.Ledger) {
	fmt.Fprintf(b, "\n## Carteira\n\n")
	fmt.Fprintf(b, "- Saldo em conta corrente: %s\n", l.CashBalance)
	if l.RiskProfile != "" {
		fmt.Fprintf(b, "- Perfil de investidor: %s\n", l.RiskProfile)
	}
	if len(l.Positions) == 0 {
		fmt.Fprintf(b, "\nNenhum investimento em carteira.\n")
		return
	}
	fmt.Fprintf(b, "\n| Ticker | Descrição | Posição |\n|---|---|---|\n")
	for _, p := range l.Positions {
		if p.Category.UnitDenominated() {
			fmt.Fprintf(b, "| %s | %s | %s un. (total %s, preço médio %s) |\n",
				p.Ticker, p.Descricao, p.Quantity, p.TotalValue, p.AveragePrice())
		} else {
			fmt.Fprintf(b, "| %s | %s | %s aplicados |\n", p.Ticker, p.Descricao, p.AppliedValue)
		}
	}
}

func renderPerguntas(b *strings.Builder, questions []carteira.Question) {
	fmt.Fprintf(b, "\n## Questionário de perfil\n")
	for i, q := range questions {
		fmt.Fprintf(b, "\n%d. %s\n", i+1, q.Prompt)
		for _, o := range q.Options {
			fmt.Fprintf(b, "   - **%s**: %s\n", o.Letter, o.Text)
		}
	}
}

func renderSugestoes(b *strings.Builder, suggestions []carteira.Suggestion) {
	fmt.Fprintf(b, "\n| Ticker | Descrição | Categoria | Preço unitário |\n|---|---|---|---|\n")
	for _, s := range suggestions {
		price := "-"
		if s.Preco != nil {
			price = s.Preco.String()
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", s.Ticker, s.Descricao, s.Categoria, price)
	}
}
