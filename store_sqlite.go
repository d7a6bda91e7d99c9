package carteira

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLiteStore keeps one serialized ledger record per customer in a SQLite
// database. Like FileStore, a save is a whole-record replacement; the
// per-customer lock in Update provides the read-modify-write exclusivity, the
// database only provides durability.
type SQLiteStore struct {
	db       *sql.DB
	defaults LedgerDefaults
	locks    keylock
	log      zerolog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS carteiras (
	customer_id TEXT PRIMARY KEY,
	record      TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);`

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string, defaults LedgerDefaults, log zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("criando diretório do banco %q: %w", path, err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("abrindo banco %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("conectando ao banco %q: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("criando esquema: %w", err)
	}
	return &SQLiteStore{
		db:       db,
		defaults: defaults,
		log:      log.With().Str("component", "sqlitestore").Logger(),
	}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context, customerID string) (*Ledger, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM carteiras WHERE customer_id = ?`, customerID).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaults.newLedger(customerID), nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("customer", customerID).Msg("falha ao ler carteira, usando carteira padrão")
		return s.defaults.newLedger(customerID), nil
	}
	var ledger Ledger
	if err := json.Unmarshal([]byte(record), &ledger); err != nil {
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

func (s *SQLiteStore) Save(ctx context.Context, ledger *Ledger) error {
	record, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("serializando carteira: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carteiras (customer_id, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(customer_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		ledger.CustomerID, string(record), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("gravando carteira: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, customerID string, fn func(*Ledger) error) error {
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
