// Package sqlite persists tracker state as whole-snapshot records.
//
// Two rows in a single key/value table hold the full serialized
// collections: the account state (balance + facilities) and the debt list.
// Every mutation rewrites its row; both are loaded once at process start.
// The only externally visible contract is that state survives a restart.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/quita-app/quita/internal/domain"
)

// Fixed record keys, one per persisted collection.
const (
	financeKey = "finance-storage"
	debtKey    = "debt-storage"
)

// DB wraps the sqlite connection.
type DB struct {
	db *sql.DB
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			name       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

// Open opens (or creates) the tracker database inside dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	conn, err := sql.Open("sqlite", filepath.Join(dir, "quita.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Whole-snapshot writes are serialized by the app layer anyway.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	for _, stmt := range Migrations() {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error { return d.db.Close() }

// ─── Snapshot operations ────────────────────────────────────────────────────

func (d *DB) save(name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	_, err = d.db.Exec(`
		INSERT INTO snapshots (name, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = datetime('now')
	`, name, string(payload))
	return err
}

func (d *DB) load(name string, v interface{}) (bool, error) {
	var payload string
	err := d.db.QueryRow(`SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// SaveFinance rewrites the persisted account state.
func (d *DB) SaveFinance(state domain.FinanceState) error {
	return d.save(financeKey, state)
}

// LoadFinance returns the persisted account state, or nil if none exists.
func (d *DB) LoadFinance() (*domain.FinanceState, error) {
	var state domain.FinanceState
	ok, err := d.load(financeKey, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

// SaveDebts rewrites the persisted debt list.
func (d *DB) SaveDebts(debts []domain.Debt) error {
	return d.save(debtKey, debts)
}

// LoadDebts returns the persisted debt list, or nil if none exists.
func (d *DB) LoadDebts() ([]domain.Debt, error) {
	var debts []domain.Debt
	ok, err := d.load(debtKey, &debts)
	if err != nil || !ok {
		return nil, err
	}
	return debts, nil
}
