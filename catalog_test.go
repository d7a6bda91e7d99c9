package carteira

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if got := len(c.Products()); got != 10 {
		t.Fatalf("len(Products()) = %d, want 10", got)
	}

	// Iteration order is category order, declarations in order within each.
	wantOrder := []string{
		"CDB_BTG_DI", "LCI_BTG_360", "TESOURO_SELIC_2029",
		"FUNDO_MULTIMERCADO_BTG", "FUNDO_ACOES_BTG_ABSOLUTO",
		"BPAC11", "PETR4", "VALE3",
		"BTC", "ETH",
	}
	for i, p := range c.Products() {
		if p.Ticker != wantOrder[i] {
			t.Errorf("Products()[%d] = %s, want %s", i, p.Ticker, wantOrder[i])
		}
	}
}

func TestCatalog_FindProduct(t *testing.T) {
	c := DefaultCatalog()
	testCases := []struct {
		query string
		want  string
		found bool
	}{
		{"PETR4", "PETR4", true},
		{"petr4", "PETR4", true},
		{" Btc ", "BTC", true},
		{"XPTO3", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		p, ok := c.FindProduct(tc.query)
		if ok != tc.found {
			t.Errorf("FindProduct(%q) found = %v, want %v", tc.query, ok, tc.found)
			continue
		}
		if ok && p.Ticker != tc.want {
			t.Errorf("FindProduct(%q) = %s, want %s", tc.query, p.Ticker, tc.want)
		}
	}
}

func TestCatalog_UnitPrice(t *testing.T) {
	c := DefaultCatalog()
	testCases := []struct {
		ticker string
		want   Money
	}{
		{"BPAC11", BRL(32.50)},
		{"PETR4", BRL(36.85)},
		// Thousands separator in the Brazilian locale format.
		{"BTC", BRL(350000)},
		{"ETH", BRL(18500)},
		// Value-denominated products carry an implicit unit price of 1.
		{"CDB_BTG_DI", BRL(1)},
	}
	for _, tc := range testCases {
		p, ok := c.FindProduct(tc.ticker)
		if !ok {
			t.Fatalf("FindProduct(%q) not found", tc.ticker)
		}
		price, err := p.UnitPrice()
		if err != nil {
			t.Fatalf("UnitPrice(%s) failed: %v", tc.ticker, err)
		}
		if !price.Equal(tc.want) {
			t.Errorf("UnitPrice(%s) = %s, want %s", tc.ticker, price, tc.want)
		}
	}
}

func TestLoadCatalog_InvalidPriceSurfacesAtTrade(t *testing.T) {
	doc := `{
		"acoes": [
			{"ticker": "BAD1", "descricao": "Preço ilegível", "Preco": "trinta"},
			{"ticker": "BAD2", "descricao": "Sem preço"},
			{"ticker": "BAD3", "descricao": "Preço zero", "Preco": "0,00"}
		]
	}`
	c, err := LoadCatalog(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	// Loading succeeds; the price error is deferred to the first trade.
	for _, ticker := range []string{"BAD1", "BAD2", "BAD3"} {
		p, ok := c.FindProduct(ticker)
		if !ok {
			t.Fatalf("FindProduct(%q) not found", ticker)
		}
		if _, err := p.UnitPrice(); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("UnitPrice(%s) error = %v, want %v", ticker, err, ErrInvalidPrice)
		}
	}
}

func TestLoadCatalog_Rejections(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not json", `nem um pouco json`},
		{"category not a list", `{"acoes": {"ticker": "PETR4"}}`},
		{"missing ticker", `{"renda_fixa": [{"descricao": "sem ticker"}]}`},
		{"missing description", `{"renda_fixa": [{"ticker": "CDB_X"}]}`},
		{"unknown profile tag", `{"renda_fixa": [{"ticker": "CDB_X", "descricao": "ok", "perfil": ["Arrojado"]}]}`},
		{"duplicate ticker", `{"acoes": [
			{"ticker": "PETR4", "descricao": "a", "Preco": "1,00"},
			{"ticker": "petr4", "descricao": "b", "Preco": "2,00"}
		]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadCatalog(strings.NewReader(tc.doc)); err == nil {
				t.Error("LoadCatalog() succeeded, want error")
			}
		})
	}
}

func TestLoadCatalog_IgnoresUnknownKeysAndMissingCategories(t *testing.T) {
	doc := `{
		"versao": 2,
		"acoes": [{"ticker": "abc3", "descricao": "Teste", "Preco": "10,00"}]
	}`
	c, err := LoadCatalog(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	if got := len(c.Products()); got != 1 {
		t.Fatalf("len(Products()) = %d, want 1", got)
	}
	// Tickers are normalized to upper case at load time.
	p, ok := c.FindProduct("ABC3")
	if !ok {
		t.Fatal("FindProduct(ABC3) not found")
	}
	if p.Category != Equity {
		t.Errorf("category = %s, want %s", p.Category, Equity)
	}
}

func TestProduct_EligibleFor(t *testing.T) {
	open := Product{Ticker: "OPEN"}
	if !open.EligibleFor(Conservador) || !open.EligibleFor(Agressivo) {
		t.Error("a product without profile tags should be open to every profile")
	}
	tagged := Product{Ticker: "TAG", Perfil: []string{"Moderado", "Agressivo"}}
	if tagged.EligibleFor(Conservador) {
		t.Error("EligibleFor(Conservador) = true, want false")
	}
	if !tagged.EligibleFor(Moderado) {
		t.Error("EligibleFor(Moderado) = false, want true")
	}
}

func TestParseRiskProfile(t *testing.T) {
	testCases := []struct {
		in      string
		want    RiskProfile
		wantErr bool
	}{
		{"Conservador", Conservador, false},
		{"moderado", Moderado, false},
		{" AGRESSIVO ", Agressivo, false},
		{"arrojado", "", true},
		{"", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseRiskProfile(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseRiskProfile(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRiskProfile(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
