package carteira

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func testDefaults() LedgerDefaults {
	return LedgerDefaults{Name: "Cliente Teste", OpeningBalance: BRL(20000)}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), testDefaults(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return store
}

func TestFileStore_LoadMissingReturnsDefault(t *testing.T) {
	store := newTestFileStore(t)
	ledger, err := store.Load(t.Context(), "novo")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !ledger.CashBalance.Equal(BRL(20000)) {
		t.Errorf("default balance = %s, want %s", ledger.CashBalance, BRL(20000))
	}
	if ledger.CustomerID != "novo" {
		t.Errorf("customer id = %q, want %q", ledger.CustomerID, "novo")
	}
	if ledger.RiskProfile != "" {
		t.Errorf("default profile = %s, want unset", ledger.RiskProfile)
	}
	if len(ledger.Positions) != 0 {
		t.Errorf("default positions = %d, want 0", len(ledger.Positions))
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := t.Context()

	ledger := NewLedger(testCustomer, "Cliente Teste", BRL(12345.67))
	ledger.RiskProfile = Moderado
	ledger.Positions = append(ledger.Positions,
		Position{Ticker: "CDB_BTG_DI", Descricao: "CDB", Category: FixedIncome, AppliedValue: BRL(500)},
		Position{Ticker: "PETR4", Descricao: "Petrobras PN", Category: Equity, Quantity: Q(10), TotalValue: BRL(368.50)},
	)
	if err := store.Save(ctx, ledger); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load(ctx, testCustomer)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !got.CashBalance.Equal(BRL(12345.67)) {
		t.Errorf("balance = %s, want %s", got.CashBalance, BRL(12345.67))
	}
	if got.RiskProfile != Moderado {
		t.Errorf("profile = %s, want %s", got.RiskProfile, Moderado)
	}
	if len(got.Positions) != 2 {
		t.Fatalf("len(Positions) = %d, want 2", len(got.Positions))
	}
	if pos := got.Position("CDB_BTG_DI"); pos == nil || !pos.AppliedValue.Equal(BRL(500)) {
		t.Errorf("fixed income position did not round-trip: %+v", pos)
	}
	if pos := got.Position("PETR4"); pos == nil || !pos.Quantity.Equal(Q(10)) || !pos.TotalValue.Equal(BRL(368.50)) {
		t.Errorf("equity position did not round-trip: %+v", pos)
	}
}

func TestFileStore_CorruptRecordDegradesToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, testDefaults(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "quebrado.json"), []byte("{isto não é json"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	ledger, err := store.Load(t.Context(), "quebrado")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !ledger.CashBalance.Equal(BRL(20000)) {
		t.Errorf("balance = %s after corrupt record, want default %s", ledger.CashBalance, BRL(20000))
	}
}

func TestFileStore_UpdateRollsBackOnError(t *testing.T) {
	store := newTestFileStore(t)
	ctx := t.Context()

	if err := store.Save(ctx, NewLedger(testCustomer, "Cliente Teste", BRL(100))); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	wantErr := os.ErrInvalid
	err := store.Update(ctx, testCustomer, func(l *Ledger) error {
		l.CashBalance = BRL(0)
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Update() error = %v, want %v", err, wantErr)
	}
	ledger, err := store.Load(ctx, testCustomer)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !ledger.CashBalance.Equal(BRL(100)) {
		t.Errorf("balance = %s after failed update, want %s", ledger.CashBalance, BRL(100))
	}
}

func TestFileStore_PersistedShape(t *testing.T) {
	store := newTestFileStore(t)

	ledger := NewLedger(testCustomer, "Cliente Teste", BRL(19500))
	ledger.Positions = append(ledger.Positions,
		Position{Ticker: "LCI_BTG_360", Descricao: "LCI", Category: FixedIncome, AppliedValue: BRL(500)},
		Position{Ticker: "BPAC11", Descricao: "Unit", Category: Equity, Quantity: Q(4), TotalValue: BRL(130)},
	)
	if err := store.Save(t.Context(), ledger); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.dir, testCustomer+".json"))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	var doc struct {
		CashBalance float64 `json:"cash_balance"`
		Positions   []map[string]any
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if doc.CashBalance != 19500 {
		t.Errorf("cash_balance = %v, want 19500", doc.CashBalance)
	}
	if len(doc.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(doc.Positions))
	}

	fixed := doc.Positions[0]
	if _, ok := fixed["applied_value"]; !ok {
		t.Error("fixed income position is missing applied_value")
	}
	if _, ok := fixed["quantity"]; ok {
		t.Error("fixed income position should not carry quantity")
	}

	unit := doc.Positions[1]
	for _, key := range []string{"quantity", "total_value", "average_price"} {
		if _, ok := unit[key]; !ok {
			t.Errorf("equity position is missing %s", key)
		}
	}
	if _, ok := unit["applied_value"]; ok {
		t.Error("equity position should not carry applied_value")
	}
	if got := unit["average_price"]; got != 32.5 {
		t.Errorf("average_price = %v, want 32.5", got)
	}
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(testDefaults()),
		"file":   newTestFileStore(t),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			if err := store.Save(ctx, NewLedger(testCustomer, "Cliente Teste", BRL(0))); err != nil {
				t.Fatalf("Save() failed: %v", err)
			}

			const workers, increments = 8, 25
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < increments; i++ {
						err := store.Update(ctx, testCustomer, func(l *Ledger) error {
							l.CashBalance = l.CashBalance.Add(BRL(1))
							return nil
						})
						if err != nil {
							t.Errorf("Update() failed: %v", err)
							return
						}
					}
				}()
			}
			wg.Wait()

			ledger, err := store.Load(ctx, testCustomer)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			want := BRL(workers * increments)
			if !ledger.CashBalance.Equal(want) {
				t.Errorf("balance = %s after concurrent updates, want %s (lost update)", ledger.CashBalance, want)
			}
		})
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore(testDefaults())
	ctx := t.Context()

	ledger := NewLedger(testCustomer, "Cliente Teste", BRL(100))
	ledger.Positions = append(ledger.Positions,
		Position{Ticker: "PETR4", Category: Equity, Quantity: Q(1), TotalValue: BRL(36.85)})
	if err := store.Save(ctx, ledger); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	first, _ := store.Load(ctx, testCustomer)
	first.CashBalance = BRL(0)
	first.Positions[0].Quantity = Q(99)

	second, _ := store.Load(ctx, testCustomer)
	if !second.CashBalance.Equal(BRL(100)) {
		t.Errorf("balance = %s, want %s: mutation leaked into the store", second.CashBalance, BRL(100))
	}
	if !second.Positions[0].Quantity.Equal(Q(1)) {
		t.Errorf("quantity = %s, want 1: mutation leaked into the store", second.Positions[0].Quantity)
	}
}
