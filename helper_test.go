package carteira

import (
	"testing"

	"github.com/rs/zerolog"
)

const testCustomer = "cliente"

// newTestBank wires a fresh engine and suitability over the embedded catalog
// and an in-memory store with the standard opening balance.
func newTestBank(t *testing.T) (*Engine, *Suitability, Store) {
	t.Helper()
	catalog := DefaultCatalog()
	store := NewMemoryStore(LedgerDefaults{Name: "Cliente Teste", OpeningBalance: BRL(20000)})
	log := zerolog.Nop()
	return NewEngine(catalog, store, log), NewSuitability(catalog, store, log), store
}

func brl(v float64) *Money {
	m := BRL(v)
	return &m
}

func qty(v float64) *Quantity {
	q := Q(v)
	return &q
}

// mustLedger loads the test customer's ledger, failing the test on error.
func mustLedger(t *testing.T, store Store) *Ledger {
	t.Helper()
	l, err := store.Load(t.Context(), testCustomer)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return l
}
