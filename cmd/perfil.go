package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	carteira "github.com/GuilhermeXav1er/hackaton"
)

// --- Perfil ---

type perfilCmd struct{}

func (*perfilCmd) Name() string     { return "perfil" }
func (*perfilCmd) Synopsis() string { return "mostra o perfil de investidor do cliente" }
func (*perfilCmd) Usage() string {
	return `agente perfil

  Mostra o perfil de investidor atual (Conservador, Moderado ou Agressivo),
  ou indica que o questionário ainda não foi respondido.
`
}

func (*perfilCmd) SetFlags(_ *flag.FlagSet) {}

func (c *perfilCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, carteira.Request{Op: carteira.OpObterPerfil})
}

// --- Questionário ---

type questionarioCmd struct{}

func (*questionarioCmd) Name() string     { return "questionario" }
func (*questionarioCmd) Synopsis() string { return "mostra o questionário de perfil de investidor" }
func (*questionarioCmd) Usage() string {
	return `agente questionario

  Mostra as três perguntas do questionário de adequação. Responda com
  'agente responder -r1 A -r2 B -r3 C'.
`
}

func (*questionarioCmd) SetFlags(_ *flag.FlagSet) {}

func (c *questionarioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, carteira.Request{Op: carteira.OpIniciarQuestionario})
}

// --- Responder ---

type responderCmd struct {
	r1, r2, r3 string
}

func (*responderCmd) Name() string     { return "responder" }
func (*responderCmd) Synopsis() string { return "responde o questionário e define o perfil" }
func (*responderCmd) Usage() string {
	return `agente responder -r1 <A|B|C> -r2 <A|B|C> -r3 <A|B|C>

  Registra as três respostas do questionário, calcula e grava o perfil de
  investidor do cliente.
`
}

func (c *responderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.r1, "r1", "", "Resposta da primeira pergunta (A, B ou C)")
	f.StringVar(&c.r2, "r2", "", "Resposta da segunda pergunta (A, B ou C)")
	f.StringVar(&c.r3, "r3", "", "Resposta da terceira pergunta (A, B ou C)")
}

func (c *responderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.r1 == "" || c.r2 == "" || c.r3 == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, carteira.Request{
		Op:        carteira.OpResponderQuestionario,
		Respostas: []string{c.r1, c.r2, c.r3},
	})
}

// --- Sugerir ---

type sugerirCmd struct{}

func (*sugerirCmd) Name() string     { return "sugerir" }
func (*sugerirCmd) Synopsis() string { return "sugere investimentos adequados ao perfil" }
func (*sugerirCmd) Usage() string {
	return `agente sugerir

  Lista até 7 produtos do catálogo adequados ao perfil de investidor do
  cliente. Exige um perfil definido.
`
}

func (*sugerirCmd) SetFlags(_ *flag.FlagSet) {}

func (c *sugerirCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, carteira.Request{Op: carteira.OpSugerirInvestimentos})
}
