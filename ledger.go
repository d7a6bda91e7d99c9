package carteira

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// positionDust is the zero threshold: a value-denominated position whose
// applied value falls below one cent is removed from the ledger.
var positionDust = decimal.New(1, -2)

// Position is a customer's consolidated holding in one product. A ledger
// holds at most one position per ticker; buys accumulate into the existing
// position instead of appending a new one.
//
// Value-denominated positions (renda fixa, fundos) carry AppliedValue only.
// Unit-denominated positions (ações, cripto) carry Quantity and TotalValue,
// with the average price derived from them.
type Position struct {
	Ticker    string   `json:"ticker"`
	Descricao string   `json:"description"`
	Category  Category `json:"category"`

	AppliedValue Money `json:"applied_value,omitempty"`

	Quantity   Quantity `json:"quantity,omitempty"`
	TotalValue Money    `json:"total_value,omitempty"`
}

// AveragePrice returns TotalValue/Quantity for unit-denominated positions
// with at least one unit, and zero otherwise.
func (p Position) AveragePrice() Money {
	if !p.Category.UnitDenominated() || !p.Quantity.IsPositive() {
		return Money{}
	}
	return Money{value: p.TotalValue.value.Div(p.Quantity.value)}
}

// depleted reports whether the position crossed the zero threshold and must
// be removed from the ledger.
func (p Position) depleted() bool {
	if p.Category.UnitDenominated() {
		return !p.Quantity.IsPositive()
	}
	return p.AppliedValue.value.LessThan(positionDust)
}

// MarshalJSON writes the category-specific shape of the position:
// applied_value for value-denominated products, quantity/total_value plus the
// derived average_price for unit-denominated ones.
func (p Position) MarshalJSON() ([]byte, error) {
	type header struct {
		Ticker    string   `json:"ticker"`
		Descricao string   `json:"description"`
		Category  Category `json:"category"`
	}
	h := header{Ticker: p.Ticker, Descricao: p.Descricao, Category: p.Category}

	if p.Category.UnitDenominated() {
		return json.Marshal(struct {
			header
			Quantity     Quantity `json:"quantity"`
			TotalValue   Money    `json:"total_value"`
			AveragePrice Money    `json:"average_price"`
		}{h, p.Quantity, p.TotalValue, p.AveragePrice()})
	}
	return json.Marshal(struct {
		header
		AppliedValue Money `json:"applied_value"`
	}{h, p.AppliedValue})
}

// Ledger is the root aggregate: one customer's cash balance, consolidated
// positions and investor profile. It is persisted as a whole on every
// mutation; partial writes are never observed because the Store serializes
// mutating operations per customer.
type Ledger struct {
	CustomerID  string      `json:"customer_id,omitempty"`
	Name        string      `json:"name,omitempty"`
	CashBalance Money       `json:"cash_balance"`
	RiskProfile RiskProfile `json:"risk_profile,omitempty"`
	Positions   []Position  `json:"positions"`
}

// NewLedger creates a fresh ledger with an opening cash balance and no
// positions or profile.
func NewLedger(customerID, name string, opening Money) *Ledger {
	return &Ledger{
		CustomerID:  customerID,
		Name:        name,
		CashBalance: opening,
		Positions:   []Position{},
	}
}

// Position returns a pointer to the holding for ticker, or nil when the
// ticker is not held. Lookup is case-insensitive.
func (l *Ledger) Position(ticker string) *Position {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	for i := range l.Positions {
		if l.Positions[i].Ticker == key {
			return &l.Positions[i]
		}
	}
	return nil
}

// settleBuy debits cost from the cash balance and consolidates the purchase
// into the position for the product, inserting it if absent. For
// unit-denominated products units is the number of whole units bought; for
// value-denominated products it is ignored.
func (l *Ledger) settleBuy(p Product, cost Money, units Quantity) {
	l.CashBalance = l.CashBalance.Sub(cost)

	pos := l.Position(p.Ticker)
	if pos == nil {
		l.Positions = append(l.Positions, Position{
			Ticker:    p.Ticker,
			Descricao: p.Descricao,
			Category:  p.Category,
		})
		pos = &l.Positions[len(l.Positions)-1]
	}
	if p.Category.UnitDenominated() {
		pos.Quantity = pos.Quantity.Add(units)
		pos.TotalValue = pos.TotalValue.Add(cost)
	} else {
		pos.AppliedValue = pos.AppliedValue.Add(cost)
	}
}

// settleSell credits proceeds to the cash balance, decrements the position
// and removes it once it crosses the zero threshold.
func (l *Ledger) settleSell(pos *Position, proceeds Money, units Quantity) {
	l.CashBalance = l.CashBalance.Add(proceeds)

	if pos.Category.UnitDenominated() {
		pos.Quantity = pos.Quantity.Sub(units)
		pos.TotalValue = pos.TotalValue.Sub(proceeds)
		if pos.TotalValue.IsNegative() {
			// Selling above the average purchase price exhausts the recorded
			// cost before the units run out; the invariant total_value >= 0
			// wins.
			pos.TotalValue = Money{}
		}
	} else {
		pos.AppliedValue = pos.AppliedValue.Sub(proceeds)
	}

	if pos.depleted() {
		l.removePosition(pos.Ticker)
	}
}

func (l *Ledger) removePosition(ticker string) {
	for i := range l.Positions {
		if l.Positions[i].Ticker == ticker {
			l.Positions = append(l.Positions[:i], l.Positions[i+1:]...)
			return
		}
	}
}

// Copy returns a deep copy, so readers never alias the stored record.
func (l *Ledger) Copy() *Ledger {
	c := *l
	c.Positions = make([]Position, len(l.Positions))
	copy(c.Positions, l.Positions)
	return &c
}
