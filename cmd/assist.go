package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/GuilhermeXav1er/hackaton/agent"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "abre a sessão de conversa com o assessor" }
func (*assistCmd) Usage() string {
	return `agente assist [pergunta inicial]

  Abre a sessão interativa com o assessor de investimentos. Requer a
  variável de ambiente GEMINI_API_KEY (ou GOOGLE_API_KEY).
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	a, err := loadApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro inicializando o cliente Gemini:", err)
		return subcommands.ExitFailure
	}

	assessor := agent.NewAssessor(a.cfg.Agent.Model, a.dispatcher)
	session := agent.New(os.Stdout, os.Stdin, assessor)
	session.Render = func(md string) string {
		out, err := glamour.Render(md, "auto")
		if err != nil {
			return md
		}
		return out
	}

	if err := session.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Sessão encerrada com erro:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
