// Package agent runs the conversational assistant: a Gemini chat session
// whose tools are the portfolio engine operations. The agent is a thin
// orchestrator; every business rule it cannot be trusted with (catalog-only
// products, suitability gating, balance checks) is enforced by the engine
// behind the function calls.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w        io.Writer
	r        *bufio.Reader
	Assessor *Expert

	// Render post-processes the assistant's markdown before printing;
	// defaults to identity.
	Render func(string) string
}

// New creates a new Agent over the given output writer and user input
// reader (e.g. os.Stdout and os.Stdin).
func New(w io.Writer, r io.Reader, assessor *Expert) *Agent {
	return &Agent{
		w:        w,
		r:        bufio.NewReader(r),
		Assessor: assessor,
		Render:   func(s string) string { return s },
	}
}

const prompt = "assessor> "

// Run starts the interactive REPL session for the agent. Initial prompts are
// consumed before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := a.Assessor.Start(ctx, client); err != nil {
		return err
	}

	fmt.Fprintln(a.w, "Bem-vindo ao assessor de investimentos. Digite 'sair' para encerrar.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "sair" {
			return nil
		}

		content, err := a.Assessor.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, a.Render(content.Parts[0].Text))
	}
}
