package carteira

import "errors"

// Engine error taxonomy. Every operation failure wraps one of these
// sentinels; the dispatcher recovers them at the boundary and converts them
// into a structured "erro" result, so none of them ever reaches the
// orchestrator as a Go error.
var (
	// ErrProductNotFound reports a ticker absent from the catalog.
	ErrProductNotFound = errors.New("ativo não encontrado no catálogo")
	// ErrInvalidArgument reports malformed operation arguments: both or
	// neither of valor/quantidade, non-positive values, or a quantity on a
	// value-denominated product.
	ErrInvalidArgument = errors.New("argumento inválido")
	// ErrInvalidPrice reports a malformed or non-positive catalog price.
	ErrInvalidPrice = errors.New("preço de catálogo inválido")
	// ErrInsufficientFunds reports a buy larger than the cash balance.
	ErrInsufficientFunds = errors.New("saldo insuficiente")
	// ErrPositionNotFound reports a sell of a ticker not held.
	ErrPositionNotFound = errors.New("posição não encontrada na carteira")
	// ErrInsufficientPosition reports a sell larger than the held position.
	ErrInsufficientPosition = errors.New("posição insuficiente")
	// ErrInvalidAnswer reports a questionnaire answer outside A/B/C.
	ErrInvalidAnswer = errors.New("resposta inválida")
	// ErrProfileUndefined reports a suggestion request before the
	// questionnaire was answered.
	ErrProfileUndefined = errors.New("perfil de investidor não definido")
)
