package carteira

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Op is the closed set of operations the orchestrator may invoke. Dispatch
// validates the request against the operation before touching any engine,
// replacing the name→callable map the conversational layer would otherwise
// drive directly from model output.
type Op int

const (
	OpConsultarCarteira Op = iota
	OpComprarAtivo
	OpVenderAtivo
	OpObterPerfil
	OpIniciarQuestionario
	OpResponderQuestionario
	OpSugerirInvestimentos
)

var opNames = map[Op]string{
	OpConsultarCarteira:     "consultar_carteira",
	OpComprarAtivo:          "comprar_ativo",
	OpVenderAtivo:           "vender_ativo",
	OpObterPerfil:           "obter_perfil_investidor",
	OpIniciarQuestionario:   "iniciar_questionario_perfil",
	OpResponderQuestionario: "responder_questionario_perfil",
	OpSugerirInvestimentos:  "sugerir_investimentos",
}

func (o Op) String() string { return opNames[o] }

// ParseOp resolves an operation name to its Op.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("operação desconhecida: %q", name)
}

// Request is a typed operation invocation. Valor and Quantidade are optional
// by pointer; Respostas carries the three questionnaire answers.
type Request struct {
	Op         Op
	Ticker     string
	Valor      *float64
	Quantidade *float64
	Respostas  []string
}

// Suggestion is one suggested product on the wire.
type Suggestion struct {
	Ticker    string   `json:"ticker"`
	Descricao string   `json:"descricao"`
	Categoria Category `json:"categoria"`
	Preco     *Money   `json:"preco_unitario,omitempty"`
	Perfil    []string `json:"perfil,omitempty"`
}

// Result is the wire contract with the orchestrator: status is "sucesso" or
// "erro", mensagem is shown to the customer verbatim, the remaining fields
// are operation-specific.
type Result struct {
	Status   string `json:"status"`
	Mensagem string `json:"mensagem"`

	IDOperacao string      `json:"id_operacao,omitempty"`
	NovoSaldo  *Money      `json:"novo_saldo,omitempty"`
	Custo      *Money      `json:"custo_executado,omitempty"`
	Recebido   *Money      `json:"valor_recebido,omitempty"`
	Carteira   *Ledger     `json:"carteira,omitempty"`
	Perfil     RiskProfile `json:"perfil,omitempty"`
	Perguntas  []Question  `json:"perguntas,omitempty"`
	Sugestoes  []Suggestion `json:"sugestoes,omitempty"`
}

const (
	StatusSucesso = "sucesso"
	StatusErro    = "erro"
)

func sucesso(mensagem string) Result {
	return Result{Status: StatusSucesso, Mensagem: mensagem}
}

// erro converts an engine error into the structured error result. Taxonomy
// errors carry customer-facing Portuguese messages; anything else gets a
// generic message so internal details never leak to the chat.
func erro(err error) Result {
	mensagem := "Não foi possível processar a operação. Tente novamente."
	switch {
	case errors.Is(err, ErrProductNotFound):
		mensagem = "O ativo solicitado não foi encontrado em nosso catálogo de produtos."
	case errors.Is(err, ErrInvalidArgument):
		mensagem = fmt.Sprintf("Operação inválida: %v.", err)
	case errors.Is(err, ErrInvalidPrice):
		mensagem = "Este ativo está com o preço indisponível no momento."
	case errors.Is(err, ErrInsufficientFunds):
		mensagem = "Saldo em conta corrente insuficiente para realizar a operação."
	case errors.Is(err, ErrPositionNotFound):
		mensagem = "Você não possui este ativo em sua carteira."
	case errors.Is(err, ErrInsufficientPosition):
		mensagem = "A quantidade ou valor solicitado é maior do que a sua posição neste ativo."
	case errors.Is(err, ErrInvalidAnswer):
		mensagem = "Resposta inválida: responda cada pergunta com A, B ou C."
	case errors.Is(err, ErrProfileUndefined):
		mensagem = "Seu perfil de investidor ainda não foi definido. Responda o questionário de perfil primeiro."
	}
	return Result{Status: StatusErro, Mensagem: mensagem}
}

// Dispatcher routes validated requests to the engines on behalf of one
// customer session.
type Dispatcher struct {
	engine *Engine
	suit   *Suitability

	customerID string
	log        zerolog.Logger
}

// NewDispatcher creates a dispatcher bound to one customer.
func NewDispatcher(engine *Engine, suit *Suitability, customerID string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		engine:     engine,
		suit:       suit,
		customerID: customerID,
		log:        log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch executes the request and always returns a Result: every engine
// error is recovered here and never propagates to the orchestrator.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	res := d.dispatch(ctx, req)
	if res.Status == StatusErro {
		d.log.Warn().Str("op", req.Op.String()).Str("mensagem", res.Mensagem).Msg("operação recusada")
	}
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) Result {
	switch req.Op {
	case OpConsultarCarteira:
		return d.consultarCarteira(ctx)
	case OpComprarAtivo:
		return d.comprarAtivo(ctx, req)
	case OpVenderAtivo:
		return d.venderAtivo(ctx, req)
	case OpObterPerfil:
		return d.obterPerfil(ctx)
	case OpIniciarQuestionario:
		return d.iniciarQuestionario()
	case OpResponderQuestionario:
		return d.responderQuestionario(ctx, req)
	case OpSugerirInvestimentos:
		return d.sugerirInvestimentos(ctx)
	default:
		return erro(fmt.Errorf("%w: operação desconhecida", ErrInvalidArgument))
	}
}

func (d *Dispatcher) consultarCarteira(ctx context.Context) Result {
	ledger, err := d.engine.Carteira(ctx, d.customerID)
	if err != nil {
		return erro(err)
	}
	res := sucesso(fmt.Sprintf("Saldo em conta corrente: %s. Você possui %d investimento(s) em carteira.",
		ledger.CashBalance, len(ledger.Positions)))
	res.Carteira = ledger
	return res
}

// tradeArgs converts the request's optional float arguments into the
// engine's money/quantity pointers.
func tradeArgs(req Request) (*Money, *Quantity) {
	var valor *Money
	var quantidade *Quantity
	if req.Valor != nil {
		m := BRL(*req.Valor)
		valor = &m
	}
	if req.Quantidade != nil {
		q := Q(*req.Quantidade)
		quantidade = &q
	}
	return valor, quantidade
}

func (d *Dispatcher) comprarAtivo(ctx context.Context, req Request) Result {
	if req.Ticker == "" {
		return erro(fmt.Errorf("%w: informe o ticker do ativo", ErrInvalidArgument))
	}
	valor, quantidade := tradeArgs(req)
	trade, err := d.engine.Buy(ctx, d.customerID, req.Ticker, valor, quantidade)
	if err != nil {
		return erro(err)
	}
	res := sucesso(fmt.Sprintf("Investimento de %s em '%s' realizado com sucesso!", trade.Cost, trade.Descricao))
	res.IDOperacao = trade.OperationID
	res.Custo = &trade.Cost
	res.NovoSaldo = &trade.NewBalance
	return res
}

func (d *Dispatcher) venderAtivo(ctx context.Context, req Request) Result {
	if req.Ticker == "" {
		return erro(fmt.Errorf("%w: informe o ticker do ativo", ErrInvalidArgument))
	}
	valor, quantidade := tradeArgs(req)
	trade, err := d.engine.Sell(ctx, d.customerID, req.Ticker, valor, quantidade)
	if err != nil {
		return erro(err)
	}
	mensagem := fmt.Sprintf("Resgate de %s de '%s' realizado com sucesso!", trade.Proceeds, trade.Descricao)
	if trade.PositionClosed {
		mensagem = fmt.Sprintf("Posição em '%s' encerrada: %s creditados em conta.", trade.Descricao, trade.Proceeds)
	}
	res := sucesso(mensagem)
	res.IDOperacao = trade.OperationID
	res.Recebido = &trade.Proceeds
	res.NovoSaldo = &trade.NewBalance
	return res
}

func (d *Dispatcher) obterPerfil(ctx context.Context) Result {
	profile, err := d.suit.Profile(ctx, d.customerID)
	if err != nil {
		return erro(err)
	}
	if profile == "" {
		res := sucesso("Seu perfil de investidor ainda não foi definido.")
		res.Perfil = "indefinido"
		return res
	}
	res := sucesso(fmt.Sprintf("Seu perfil de investidor é %s.", profile))
	res.Perfil = profile
	return res
}

func (d *Dispatcher) iniciarQuestionario() Result {
	res := sucesso("Responda as três perguntas abaixo com A, B ou C.")
	res.Perguntas = Questionnaire()
	return res
}

func (d *Dispatcher) responderQuestionario(ctx context.Context, req Request) Result {
	profile, err := d.suit.SubmitAnswers(ctx, d.customerID, req.Respostas...)
	if err != nil {
		return erro(err)
	}
	res := sucesso(fmt.Sprintf("Questionário concluído: seu perfil de investidor é %s.", profile))
	res.Perfil = profile
	return res
}

func (d *Dispatcher) sugerirInvestimentos(ctx context.Context) Result {
	products, err := d.suit.Suggest(ctx, d.customerID)
	if err != nil {
		return erro(err)
	}
	suggestions := make([]Suggestion, 0, len(products))
	for _, p := range products {
		s := Suggestion{
			Ticker:    p.Ticker,
			Descricao: p.Descricao,
			Categoria: p.Category,
			Perfil:    p.Perfil,
		}
		if p.Category.UnitDenominated() {
			if price, err := p.UnitPrice(); err == nil {
				s.Preco = &price
			}
		}
		suggestions = append(suggestions, s)
	}
	res := sucesso(fmt.Sprintf("Encontramos %d produto(s) adequados ao seu perfil.", len(suggestions)))
	res.Sugestoes = suggestions
	return res
}
