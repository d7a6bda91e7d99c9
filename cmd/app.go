// Package cmd implements the CLI application over the portfolio engine.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	carteira "github.com/GuilhermeXav1er/hackaton"
	"github.com/GuilhermeXav1er/hackaton/logger"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&carteiraCmd{}, "carteira")
	c.Register(&comprarCmd{}, "carteira")
	c.Register(&venderCmd{}, "carteira")

	c.Register(&perfilCmd{}, "perfil")
	c.Register(&questionarioCmd{}, "perfil")
	c.Register(&responderCmd{}, "perfil")
	c.Register(&sugerirCmd{}, "perfil")

	c.Register(&assistCmd{}, "assessor")
	c.Register(&topicCmd{}, "documentação")
}

// As a CLI application the lifecycle is short lived, so globals are fine.

var configFile = flag.String("config", "carteira.yaml", "Path to the application configuration file (YAML)")

// app bundles everything a command needs.
type app struct {
	cfg        *carteira.Config
	store      carteira.Store
	dispatcher *carteira.Dispatcher
	log        zerolog.Logger
}

// loadApp loads the configuration and wires catalog, store and engines.
func loadApp() (*app, error) {
	cfg, err := carteira.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	catalog := carteira.DefaultCatalog()
	if cfg.CatalogPath != "" {
		f, err := os.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("abrindo catálogo %q: %w", cfg.CatalogPath, err)
		}
		defer f.Close()
		catalog, err = carteira.LoadCatalog(f)
		if err != nil {
			return nil, err
		}
	}

	var store carteira.Store
	switch cfg.Store.Backend {
	case "file":
		store, err = carteira.NewFileStore(cfg.Store.Path, cfg.Defaults(), log)
	case "sqlite":
		store, err = carteira.NewSQLiteStore(cfg.Store.Path, cfg.Defaults(), log)
	case "memory":
		store = carteira.NewMemoryStore(cfg.Defaults())
	default:
		err = fmt.Errorf("backend de armazenamento desconhecido: %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	engine := carteira.NewEngine(catalog, store, log)
	suit := carteira.NewSuitability(catalog, store, log)
	return &app{
		cfg:        cfg,
		store:      store,
		dispatcher: carteira.NewDispatcher(engine, suit, cfg.Customer.ID, log),
		log:        log,
	}, nil
}

// printMarkdown renders markdown for the terminal; on render failure the raw
// markdown is printed instead.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// run is the shared Execute body: wire the app, dispatch one request, render
// the result.
func run(ctx context.Context, req carteira.Request) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	res := a.dispatcher.Dispatch(ctx, req)
	printMarkdown(renderResult(res))
	if res.Status != carteira.StatusSucesso {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
