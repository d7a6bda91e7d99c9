// The agente binary is the portfolio simulator CLI and the entry point of
// the conversational assessor.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/GuilhermeXav1er/hackaton/cmd"
)

func main() {
	// API keys (GEMINI_API_KEY) live in .env during development; a missing
	// file is fine.
	_ = godotenv.Load()

	// Shell completion: exits by itself when invoked by the completion
	// machinery, no-op otherwise.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"carteira":     {},
			"comprar":      {},
			"vender":       {},
			"perfil":       {},
			"questionario": {},
			"responder":    {},
			"sugerir":      {},
			"assist":       {},
			"topic":        {},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
		},
	}
	completion.Complete("agente")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
