package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	carteira "github.com/GuilhermeXav1er/hackaton"
)

// tradeFlags are the arguments shared by comprar and vender. Valor and
// quantidade stay optional: the engine decides which combination each
// product category accepts.
type tradeFlags struct {
	ticker     string
	valor      float64
	quantidade float64
}

func (t *tradeFlags) set(f *flag.FlagSet) {
	f.StringVar(&t.ticker, "t", "", "Ticker do ativo")
	f.Float64Var(&t.valor, "v", 0, "Valor em reais da operação")
	f.Float64Var(&t.quantidade, "q", 0, "Quantidade de unidades (ações e cripto)")
}

func (t *tradeFlags) request(op carteira.Op) carteira.Request {
	req := carteira.Request{Op: op, Ticker: t.ticker}
	if t.valor != 0 {
		req.Valor = &t.valor
	}
	if t.quantidade != 0 {
		req.Quantidade = &t.quantidade
	}
	return req
}

// --- Comprar ---

type comprarCmd struct {
	tradeFlags
}

func (*comprarCmd) Name() string     { return "comprar" }
func (*comprarCmd) Synopsis() string { return "compra um ativo do catálogo" }
func (*comprarCmd) Usage() string {
	return `agente comprar -t <ticker> [-v <valor> | -q <quantidade>]

  Compra um ativo. Renda fixa e fundos são comprados por valor; ações e
  cripto por valor ou por quantidade de unidades. Comprando por valor, a
  quantidade é arredondada para baixo e apenas as unidades inteiras são
  cobradas.
`
}

func (c *comprarCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *comprarCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, c.request(carteira.OpComprarAtivo))
}

// --- Vender ---

type venderCmd struct {
	tradeFlags
}

func (*venderCmd) Name() string     { return "vender" }
func (*venderCmd) Synopsis() string { return "vende um ativo da carteira" }
func (*venderCmd) Usage() string {
	return `agente vender -t <ticker> [-v <valor> | -q <quantidade>]

  Vende (resgata) um ativo em carteira. Uma posição que zera é removida da
  carteira.
`
}

func (c *venderCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *venderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, c.request(carteira.OpVenderAtivo))
}
