package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantlab/marketsim/exec"
	"github.com/quantlab/marketsim/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT PRIMARY KEY,
	alpha TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	size TEXT NOT NULL,
	price TEXT NOT NULL,
	fee TEXT NOT NULL,
	ts TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	ts TEXT NOT NULL,
	cash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_ts ON equity(ts);
`

// SQLite stores fills and equity snapshots for post-run queries.
// Decimal columns are stored as text to keep them exact.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(alpha string, f exec.Fill) error {
	_, err := j.db.Exec(`
		INSERT INTO fills (order_id, alpha, symbol, side, size, price, fee, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OrderID, alpha, f.Symbol, f.Side,
		f.Size.String(), f.Price.String(), f.Fee.String(), f.Ts,
	)
	return err
}

func (j *SQLite) RecordEquity(p ledger.EquityPoint) error {
	_, err := j.db.Exec(`INSERT INTO equity (ts, cash) VALUES (?, ?)`,
		p.Ts, p.Cash.String())
	return err
}

// CountFills reports how many fills an alpha recorded; empty alpha
// counts everything.
func (j *SQLite) CountFills(alpha string) (int, error) {
	var n int
	var err error
	if alpha == "" {
		err = j.db.QueryRow(`SELECT COUNT(*) FROM fills`).Scan(&n)
	} else {
		err = j.db.QueryRow(`SELECT COUNT(*) FROM fills WHERE alpha = ?`, alpha).Scan(&n)
	}
	return n, err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
