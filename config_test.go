package carteira

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Customer.ID != "cliente" {
		t.Errorf("customer id = %q, want %q", cfg.Customer.ID, "cliente")
	}
	if cfg.Store.Backend != "file" || cfg.Store.Path != ".carteira" {
		t.Errorf("store = %s/%s, want file/.carteira", cfg.Store.Backend, cfg.Store.Path)
	}
	if cfg.DefaultBalance != 20000 {
		t.Errorf("default balance = %v, want 20000", cfg.DefaultBalance)
	}
	if cfg.Agent.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q, want gemini-2.5-pro", cfg.Agent.Model)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.yaml")
	doc := `
customer:
  id: guilherme
  nome: Guilherme
store:
  backend: sqlite
  path: dados/carteiras.db
default_balance: 50000
log:
  level: debug
  pretty: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	// Environment wins over the file.
	t.Setenv("CARTEIRA_STORE", "memory")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Customer.ID != "guilherme" || cfg.Customer.Nome != "Guilherme" {
		t.Errorf("customer = %s/%s, want guilherme/Guilherme", cfg.Customer.ID, cfg.Customer.Nome)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend = %q, want memory (env override)", cfg.Store.Backend)
	}
	if cfg.Store.Path != "dados/carteiras.db" {
		t.Errorf("path = %q, want dados/carteiras.db", cfg.Store.Path)
	}
	if cfg.DefaultBalance != 50000 {
		t.Errorf("default balance = %v, want 50000", cfg.DefaultBalance)
	}
	if cfg.Agent.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q, want gemini-2.5-flash (env override)", cfg.Agent.Model)
	}
	if !cfg.Log.Pretty {
		t.Error("log.pretty = false, want true")
	}

	defaults := cfg.Defaults()
	if defaults.Name != "Guilherme" || !defaults.OpeningBalance.Equal(BRL(50000)) {
		t.Errorf("Defaults() = %q/%s, want Guilherme/%s", defaults.Name, defaults.OpeningBalance, BRL(50000))
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.yaml")
	if err := os.WriteFile(path, []byte("store: [isto não é um mapa"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() succeeded on invalid YAML, want error")
	}
}
