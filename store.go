package carteira

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// LedgerDefaults describes the ledger created when a customer has no
// persisted record yet.
type LedgerDefaults struct {
	Name           string
	OpeningBalance Money
}

func (d LedgerDefaults) newLedger(customerID string) *Ledger {
	return NewLedger(customerID, d.Name, d.OpeningBalance)
}

// Store persists customer ledgers. Load returns a private copy of the
// record, or a fresh default ledger when none is persisted; it never fails
// on a missing or corrupt record. Save replaces the whole record. Update is
// the read-modify-write unit every mutating operation runs in: it holds the
// customer's exclusive lock across load, mutation and save, so concurrent
// mutations are serialized and lost updates cannot happen. If fn returns an
// error, nothing is written.
type Store interface {
	Load(ctx context.Context, customerID string) (*Ledger, error)
	Save(ctx context.Context, ledger *Ledger) error
	Update(ctx context.Context, customerID string, fn func(*Ledger) error) error
}

// keylock serializes access per customer id.
type keylock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keylock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// MemoryStore keeps ledgers in a map. It backs tests and the "memory"
// configuration, where state does not survive the process.
type MemoryStore struct {
	defaults LedgerDefaults
	locks    keylock

	mu      sync.RWMutex
	records map[string]*Ledger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(defaults LedgerDefaults) *MemoryStore {
	return &MemoryStore{defaults: defaults, records: make(map[string]*Ledger)}
}

func (s *MemoryStore) Load(_ context.Context, customerID string) (*Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.records[customerID]; ok {
		return l.Copy(), nil
	}
	return s.defaults.newLedger(customerID), nil
}

func (s *MemoryStore) Save(_ context.Context, ledger *Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[ledger.CustomerID] = ledger.Copy()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, customerID string, fn func(*Ledger) error) error {
	lock := s.locks.get(customerID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.Load(ctx, customerID)
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	return s.Save(ctx, ledger)
}

// FileStore persists one JSON document per customer under a directory. A
// save writes a complete replacement through a temporary file and a rename,
// so a reader never observes a half-written record.
type FileStore struct {
	dir      string
	defaults LedgerDefaults
	locks    keylock
	log      zerolog.Logger
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, defaults LedgerDefaults, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criando diretório de carteiras %q: %w", dir, err)
	}
	return &FileStore{
		dir:      dir,
		defaults: defaults,
		log:      log.With().Str("component", "filestore").Logger(),
	}, nil
}

func (s *FileStore) path(customerID string) string {
	return filepath.Join(s.dir, customerID+".json")
}

func (s *FileStore) Load(_ context.Context, customerID string) (*Ledger, error) {
	data, err := os.ReadFile(s.path(customerID))
	if os.IsNotExist(err) {
		return s.defaults.newLedger(customerID), nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("customer", customerID).Msg("falha ao ler carteira, usando carteira padrão")
		return s.defaults.newLedger(customerID), nil
	}
	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		// A corrupt record degrades to the default ledger rather than
		// blocking every operation. This resets customer state, so it is
		// logged loudly.
		s.log.Error().Err(err).Str("customer", customerID).Msg("carteira corrompida, usando carteira padrão")
		return s.defaults.newLedger(customerID), nil
	}
	if ledger.CustomerID == "" {
		ledger.CustomerID = customerID
	}
	if ledger.Positions == nil {
		ledger.Positions = []Position{}
	}
	return &ledger, nil
}

func (s *FileStore) Save(_ context.Context, ledger *Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("serializando carteira: %w", err)
	}
	target := s.path(ledger.CustomerID)
	tmp, err := os.CreateTemp(s.dir, "."+ledger.CustomerID+"-*")
	if err != nil {
		return fmt.Errorf("gravando carteira: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("gravando carteira: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("gravando carteira: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("gravando carteira: %w", err)
	}
	return nil
}

func (s *FileStore) Update(ctx context.Context, customerID string, fn func(*Ledger) error) error {
	lock := s.locks.get(customerID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.Load(ctx, customerID)
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	return s.Save(ctx, ledger)
}
