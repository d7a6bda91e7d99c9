package carteira

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Category classifies a product by how it is denominated and traded.
type Category string

const (
	// FixedIncome products (CDB, LCI, Tesouro) are value-denominated: traded
	// by monetary amount, implicit unit price of 1.
	FixedIncome Category = "renda_fixa"
	// Fund products are value-denominated.
	Fund Category = "fundo"
	// Equity products are unit-denominated: traded by whole shares at the
	// catalog unit price.
	Equity Category = "acao"
	// Crypto products are unit-denominated.
	Crypto Category = "cripto"
)

// categories in catalog iteration order.
var categories = []Category{FixedIncome, Fund, Equity, Crypto}

// UnitDenominated reports whether products of this category are traded by
// whole units rather than by monetary amount.
func (c Category) UnitDenominated() bool { return c == Equity || c == Crypto }

// RiskProfile is the investor classification computed by the suitability
// questionnaire. The zero value means the profile was never defined.
type RiskProfile string

const (
	Conservador RiskProfile = "Conservador"
	Moderado    RiskProfile = "Moderado"
	Agressivo   RiskProfile = "Agressivo"
)

// ParseRiskProfile parses a profile name, case-insensitively.
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservador":
		return Conservador, nil
	case "moderado":
		return Moderado, nil
	case "agressivo":
		return Agressivo, nil
	default:
		return "", fmt.Errorf("perfil desconhecido: %q", s)
	}
}

// Product is one immutable catalog entry. The raw Preco string keeps the
// Brazilian locale format of the definition file ("32,50"); it is normalized
// once at load time and the parsed price is what the engine consumes.
type Product struct {
	Ticker    string   `json:"ticker" validate:"required"`
	Descricao string   `json:"descricao" validate:"required"`
	Preco     string   `json:"Preco,omitempty"`
	Perfil    []string `json:"perfil,omitempty" validate:"dive,oneof=Conservador Moderado Agressivo"`

	Category Category `json:"-"`

	price    decimal.Decimal
	priceErr error
}

// UnitPrice returns the product's unit price. It fails with ErrInvalidPrice
// when the catalog price is malformed or non-positive, which unit-denominated
// trades surface to the customer.
func (p Product) UnitPrice() (Money, error) {
	if p.priceErr != nil {
		return Money{}, p.priceErr
	}
	return Money{value: p.price}, nil
}

// EligibleFor reports whether the product may be suggested to an investor
// with the given profile. A product with no perfil tags is open to all
// profiles.
func (p Product) EligibleFor(profile RiskProfile) bool {
	if len(p.Perfil) == 0 {
		return true
	}
	for _, tag := range p.Perfil {
		if RiskProfile(tag) == profile {
			return true
		}
	}
	return false
}

// normalizePrice converts a Brazilian locale decimal string ("1.234,56" or
// "32,50") into an exact decimal. This is the only place locale-formatted
// prices are handled; past this point the engine only sees numbers.
func normalizePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return d, nil
}

// Catalog is the read-only set of tradable products, loaded once at process
// start. Iteration order is category order (renda fixa, fundos, ações,
// cripto) and declaration order within a category.
type Catalog struct {
	products []Product
	index    map[string]int // upper-case ticker -> products offset
}

// categoryKeys maps a category to the JSONPath of its array in the catalog
// definition document.
var categoryKeys = map[Category]string{
	FixedIncome: "$.renda_fixa",
	Fund:        "$.fundos",
	Equity:      "$.acoes",
	Crypto:      "$.cripto",
}

//go:embed catalog.json
var defaultCatalog []byte

// DefaultCatalog loads the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalog))
	if err != nil {
		// The embedded catalog is fixed at build time.
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog definition document. The document is a single
// JSON object with one array per category; unknown top-level keys are
// ignored, missing categories are empty.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catálogo ilegível: %w", err)
	}

	v := validator.New()
	c := &Catalog{index: make(map[string]int)}

	for _, cat := range categories {
		jval, err := jsonpath.Get(categoryKeys[cat], doc)
		if err != nil {
			continue // category absent from the document
		}
		items, ok := jval.([]any)
		if !ok {
			return nil, fmt.Errorf("categoria %s: esperava uma lista, obteve %T", cat, jval)
		}
		for _, item := range items {
			raw, err := json.Marshal(item)
			if err != nil {
				return nil, err
			}
			var p Product
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("categoria %s: %w", cat, err)
			}
			p.Category = cat
			if err := v.Struct(p); err != nil {
				return nil, fmt.Errorf("produto inválido na categoria %s: %w", cat, err)
			}
			if err := c.add(p); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Catalog) add(p Product) error {
	key := strings.ToUpper(p.Ticker)
	if _, dup := c.index[key]; dup {
		return fmt.Errorf("ticker duplicado no catálogo: %s", key)
	}
	p.Ticker = key
	if p.Preco != "" {
		p.price, p.priceErr = normalizePrice(p.Preco)
		if p.priceErr == nil && !p.price.IsPositive() {
			p.priceErr = fmt.Errorf("%w: %q", ErrInvalidPrice, p.Preco)
		}
	} else if p.Category.UnitDenominated() {
		p.priceErr = fmt.Errorf("%w: ausente", ErrInvalidPrice)
	} else {
		// Value-denominated products have an implicit unit price of 1.
		p.price = decimal.NewFromInt(1)
	}
	c.index[key] = len(c.products)
	c.products = append(c.products, p)
	return nil
}

// FindProduct resolves a ticker, case-insensitively. The boolean is false
// for unknown tickers; whether that is an error is the caller's concern.
func (c *Catalog) FindProduct(ticker string) (Product, bool) {
	i, ok := c.index[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Products returns all products in catalog iteration order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ListByProfile returns the products eligible for the given profile, in
// catalog iteration order.
func (c *Catalog) ListByProfile(profile RiskProfile) []Product {
	var out []Product
	for _, p := range c.products {
		if p.EligibleFor(profile) {
			out = append(out, p)
		}
	}
	return out
}
