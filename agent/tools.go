package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	carteira "github.com/GuilhermeXav1er/hackaton"
)

const systemInstruction = `Você é um assessor virtual de investimentos de um banco. Sua personalidade é
profissional, eficiente e segura. Você ajuda o cliente a consultar sua
carteira, descobrir seu perfil de investidor e realizar compras e vendas de
ativos.

REGRAS RÍGIDAS:
1. Você SÓ PODE oferecer e operar os produtos retornados pelas ferramentas.
   Use o ticker exato retornado por elas; nunca invente tickers.
2. Se o cliente pedir um produto que não está no catálogo, informe
   educadamente que o ativo não está disponível e sugira uma alternativa
   adequada ao perfil dele.
3. Para executar uma compra você OBRIGATORIAMENTE precisa do ticker e do
   valor (ou da quantidade, para ações e cripto). Se o cliente não fornecer,
   pergunte antes de operar.
4. Venda no máximo UM ticker por interação do cliente. Se ele pedir para
   vender vários ativos de uma vez, peça que confirme um de cada vez.
5. Antes de sugerir investimentos, verifique se o perfil de investidor está
   definido; se não estiver, ofereça o questionário de perfil.`

// NewAssessor builds the assessor expert: a chat whose tools are the seven
// engine operations, executed through the dispatcher.
func NewAssessor(model string, d *carteira.Dispatcher) *Expert {
	ops := operations(d)
	return &Expert{
		Name:      "Assessor",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(ops)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
		Library: NewLibrary(ops),
	}
}

// opFunc adapts one dispatcher operation to the Function interface. The
// dispatcher result is serialized whole into the function response, so the
// model sees exactly the wire contract the orchestrator does.
type opFunc struct {
	decl  *genai.FunctionDeclaration
	build func(args map[string]any) (carteira.Request, error)
	d     *carteira.Dispatcher
}

func (f *opFunc) Declaration() *genai.FunctionDeclaration { return f.decl }

func (f *opFunc) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{ID: id, Name: f.decl.Name}

	req, err := f.build(args)
	if err != nil {
		fresp.Response = map[string]any{"error": err.Error()}
		return fresp
	}
	result := f.d.Dispatch(ctx, req)

	raw, err := json.Marshal(result)
	if err != nil {
		fresp.Response = map[string]any{"error": err.Error()}
		return fresp
	}
	fresp.Response = map[string]any{"result": json.RawMessage(raw)}
	return fresp
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("argumento %q ausente", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argumento %q deveria ser string, veio %T", key, v)
	}
	return s, nil
}

func numberArg(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	n, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("argumento %q deveria ser número, veio %T", key, v)
	}
	return &n, nil
}

var (
	tickerSchema = &genai.Schema{
		Type:        genai.TypeString,
		Description: "O código (ticker) EXATO do ativo, como consta no catálogo.",
	}
	valorSchema = &genai.Schema{
		Type:        genai.TypeNumber,
		Description: "O montante financeiro em reais da operação.",
	}
	quantidadeSchema = &genai.Schema{
		Type:        genai.TypeNumber,
		Description: "A quantidade inteira de unidades, apenas para ações e cripto.",
	}
	respostaSchema = &genai.Schema{
		Type:        genai.TypeString,
		Description: "A resposta escolhida: A, B ou C.",
	}
)

func operations(d *carteira.Dispatcher) []*opFunc {
	tradeRequest := func(op carteira.Op) func(args map[string]any) (carteira.Request, error) {
		return func(args map[string]any) (carteira.Request, error) {
			ticker, err := stringArg(args, "ticker")
			if err != nil {
				return carteira.Request{}, err
			}
			valor, err := numberArg(args, "valor")
			if err != nil {
				return carteira.Request{}, err
			}
			quantidade, err := numberArg(args, "quantidade")
			if err != nil {
				return carteira.Request{}, err
			}
			return carteira.Request{Op: op, Ticker: ticker, Valor: valor, Quantidade: quantidade}, nil
		}
	}
	noArgs := func(op carteira.Op) func(args map[string]any) (carteira.Request, error) {
		return func(map[string]any) (carteira.Request, error) {
			return carteira.Request{Op: op}, nil
		}
	}

	return []*opFunc{
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpConsultarCarteira.String(),
				Description: "Obtém a carteira de investimentos e o saldo em conta do cliente.",
			},
			build: noArgs(carteira.OpConsultarCarteira),
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpComprarAtivo.String(),
				Description: "Executa a compra de um ativo financeiro para o cliente.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker":     tickerSchema,
						"valor":      valorSchema,
						"quantidade": quantidadeSchema,
					},
					Required: []string{"ticker"},
				},
			},
			build: tradeRequest(carteira.OpComprarAtivo),
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpVenderAtivo.String(),
				Description: "Executa a venda (resgate) de um ativo da carteira do cliente.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker":     tickerSchema,
						"valor":      valorSchema,
						"quantidade": quantidadeSchema,
					},
					Required: []string{"ticker"},
				},
			},
			build: tradeRequest(carteira.OpVenderAtivo),
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpObterPerfil.String(),
				Description: "Consulta o perfil de investidor atual do cliente.",
			},
			build: noArgs(carteira.OpObterPerfil),
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpIniciarQuestionario.String(),
				Description: "Obtém as perguntas do questionário de perfil de investidor.",
			},
			build: noArgs(carteira.OpIniciarQuestionario),
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name: carteira.OpResponderQuestionario.String(),
				Description: "Registra as três respostas do questionário de perfil e " +
					"calcula o perfil de investidor do cliente.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"r1": respostaSchema,
						"r2": respostaSchema,
						"r3": respostaSchema,
					},
					Required: []string{"r1", "r2", "r3"},
				},
			},
			build: func(args map[string]any) (carteira.Request, error) {
				var respostas []string
				for _, key := range []string{"r1", "r2", "r3"} {
					r, err := stringArg(args, key)
					if err != nil {
						return carteira.Request{}, err
					}
					respostas = append(respostas, r)
				}
				return carteira.Request{Op: carteira.OpResponderQuestionario, Respostas: respostas}, nil
			},
		},
		{
			d: d,
			decl: &genai.FunctionDeclaration{
				Name:        carteira.OpSugerirInvestimentos.String(),
				Description: "Sugere produtos de investimento adequados ao perfil do cliente.",
			},
			build: noArgs(carteira.OpSugerirInvestimentos),
		},
	}
}
