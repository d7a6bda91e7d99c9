package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	carteira "github.com/GuilhermeXav1er/hackaton"
)

type carteiraCmd struct{}

func (*carteiraCmd) Name() string     { return "carteira" }
func (*carteiraCmd) Synopsis() string { return "consulta o saldo e os investimentos do cliente" }
func (*carteiraCmd) Usage() string {
	return `agente carteira

  Mostra o saldo em conta corrente, o perfil de investidor e as posições
  consolidadas da carteira.
`
}

func (*carteiraCmd) SetFlags(_ *flag.FlagSet) {}

func (c *carteiraCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, carteira.Request{Op: carteira.OpConsultarCarteira})
}
