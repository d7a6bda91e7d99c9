package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library resolves a model function call into its response.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is one declarable, callable tool.
type Function interface {
	// Declaration describes this function to the model.
	Declaration() *genai.FunctionDeclaration
	// Call executes this function.
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary builds a Library that routes calls by declared name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error": fmt.Sprintf("função desconhecida: %s", call.Name),
			},
		}
	}
}

// NewDeclarations collects the declarations of all functions.
func NewDeclarations[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}
