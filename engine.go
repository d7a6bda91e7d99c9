package carteira

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TradeResult reports a settled buy or sell.
type TradeResult struct {
	OperationID string
	Ticker      string
	Descricao   string
	Category    Category
	// Cost is the amount debited on a buy; Proceeds the amount credited on a
	// sell. Only one of the two is set.
	Cost     Money
	Proceeds Money
	// Units bought or sold, zero for value-denominated products.
	Units      Quantity
	NewBalance Money
	// PositionClosed is true when the sell removed the position entirely.
	PositionClosed bool
}

// Engine validates, prices and settles buy and sell operations against the
// customer ledger. All checks run inside the store's exclusive
// read-modify-write unit; a failed operation leaves the ledger untouched.
type Engine struct {
	catalog *Catalog
	store   Store
	log     zerolog.Logger
}

// NewEngine creates a transaction engine over the given catalog and store.
func NewEngine(catalog *Catalog, store Store, log zerolog.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		store:   store,
		log:     log.With().Str("component", "engine").Logger(),
	}
}

// Carteira returns the customer's current ledger, read-only.
func (e *Engine) Carteira(ctx context.Context, customerID string) (*Ledger, error) {
	return e.store.Load(ctx, customerID)
}

// Buy purchases a product. Exactly one of valor (monetary amount) or
// quantidade (whole unit count) must be given.
//
// Unit-denominated products are charged quantidade times the catalog unit
// price; when valor is given instead, the unit count is the floor of
// valor/price, so the customer is never charged more than the requested
// amount and the residual cash stays in the account. Value-denominated
// products are charged valor directly and reject a quantidade argument.
func (e *Engine) Buy(ctx context.Context, customerID, ticker string, valor *Money, quantidade *Quantity) (*TradeResult, error) {
	product, ok := e.catalog.FindProduct(ticker)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, ticker)
	}
	if (valor == nil) == (quantidade == nil) {
		return nil, fmt.Errorf("%w: informe exatamente um entre valor e quantidade", ErrInvalidArgument)
	}

	var cost Money
	var units Quantity

	if product.Category.UnitDenominated() {
		price, err := product.UnitPrice()
		if err != nil {
			return nil, err
		}
		switch {
		case quantidade != nil:
			if !quantidade.IsPositive() || !quantidade.IsWhole() {
				return nil, fmt.Errorf("%w: quantidade deve ser um inteiro positivo", ErrInvalidArgument)
			}
			units = *quantidade
		default:
			if !valor.IsPositive() {
				return nil, fmt.Errorf("%w: valor deve ser positivo", ErrInvalidArgument)
			}
			units = valor.DivPrice(price).Floor()
		}
		cost = price.Mul(units)
	} else {
		if quantidade != nil {
			return nil, fmt.Errorf("%w: %s é negociado por valor, não por quantidade", ErrInvalidArgument, product.Ticker)
		}
		if !valor.IsPositive() {
			return nil, fmt.Errorf("%w: valor deve ser positivo", ErrInvalidArgument)
		}
		cost = *valor
	}

	if !cost.IsPositive() {
		return nil, fmt.Errorf("%w: valor insuficiente para comprar uma unidade de %s", ErrInvalidArgument, product.Ticker)
	}

	result := &TradeResult{
		OperationID: uuid.NewString(),
		Ticker:      product.Ticker,
		Descricao:   product.Descricao,
		Category:    product.Category,
		Cost:        cost,
		Units:       units,
	}
	err := e.store.Update(ctx, customerID, func(l *Ledger) error {
		if l.CashBalance.LessThan(cost) {
			return fmt.Errorf("%w: custo %s, saldo %s", ErrInsufficientFunds, cost, l.CashBalance)
		}
		l.settleBuy(product, cost, units)
		result.NewBalance = l.CashBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", result.OperationID).
		Str("customer", customerID).
		Str("ticker", product.Ticker).
		Stringer("cost", cost).
		Stringer("balance", result.NewBalance).
		Msg("compra liquidada")
	return result, nil
}

// Sell disposes of a held position, fully or partially. At least one of
// valor or quantidade must be given.
//
// Unit-denominated products sell quantidade units at the catalog price, or,
// when valor is given, the floor of valor/price units capped at the held
// quantity. Value-denominated products require valor and debit it from the
// applied value. A position that crosses the zero threshold is removed.
func (e *Engine) Sell(ctx context.Context, customerID, ticker string, valor *Money, quantidade *Quantity) (*TradeResult, error) {
	if valor == nil && quantidade == nil {
		return nil, fmt.Errorf("%w: informe valor ou quantidade", ErrInvalidArgument)
	}

	result := &TradeResult{OperationID: uuid.NewString()}
	err := e.store.Update(ctx, customerID, func(l *Ledger) error {
		pos := l.Position(ticker)
		if pos == nil {
			return fmt.Errorf("%w: %q", ErrPositionNotFound, ticker)
		}
		result.Ticker = pos.Ticker
		result.Descricao = pos.Descricao
		result.Category = pos.Category

		var proceeds Money
		var units Quantity

		if pos.Category.UnitDenominated() {
			product, ok := e.catalog.FindProduct(pos.Ticker)
			if !ok {
				return fmt.Errorf("%w: %q", ErrProductNotFound, pos.Ticker)
			}
			price, err := product.UnitPrice()
			if err != nil {
				return err
			}
			switch {
			case quantidade != nil:
				if !quantidade.IsPositive() || !quantidade.IsWhole() {
					return fmt.Errorf("%w: quantidade deve ser um inteiro positivo", ErrInvalidArgument)
				}
				if quantidade.GreaterThan(pos.Quantity) {
					return fmt.Errorf("%w: quantidade %s, em carteira %s", ErrInsufficientPosition, quantidade, pos.Quantity)
				}
				units = *quantidade
			default:
				if !valor.IsPositive() {
					return fmt.Errorf("%w: valor deve ser positivo", ErrInvalidArgument)
				}
				if valor.GreaterThan(pos.TotalValue) {
					return fmt.Errorf("%w: valor %s, em carteira %s", ErrInsufficientPosition, valor, pos.TotalValue)
				}
				units = valor.DivPrice(price).Floor().Min(pos.Quantity)
				if !units.IsPositive() {
					return fmt.Errorf("%w: valor insuficiente para vender uma unidade de %s", ErrInvalidArgument, pos.Ticker)
				}
			}
			proceeds = price.Mul(units)
		} else {
			if valor == nil {
				return fmt.Errorf("%w: %s é negociado por valor, não por quantidade", ErrInvalidArgument, pos.Ticker)
			}
			if !valor.IsPositive() {
				return fmt.Errorf("%w: valor deve ser positivo", ErrInvalidArgument)
			}
			if valor.GreaterThan(pos.AppliedValue) {
				return fmt.Errorf("%w: valor %s, em carteira %s", ErrInsufficientPosition, valor, pos.AppliedValue)
			}
			proceeds = *valor
		}

		l.settleSell(pos, proceeds, units)
		result.Proceeds = proceeds
		result.Units = units
		result.NewBalance = l.CashBalance
		result.PositionClosed = l.Position(result.Ticker) == nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", result.OperationID).
		Str("customer", customerID).
		Str("ticker", result.Ticker).
		Stringer("proceeds", result.Proceeds).
		Stringer("balance", result.NewBalance).
		Msg("venda liquidada")
	return result, nil
}
