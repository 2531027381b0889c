package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDecision(d DecisionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(id, time, instrument, strategy, signal, strong, allowed, stage, reason, margin, total_margin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Time, d.Instrument, d.Strategy, d.Signal, d.Strong,
		d.Allowed, d.Stage, d.Reason, d.Margin, d.TotalMargin,
	)
	return err
}

func (j *SQLiteJournal) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(id, time, instrument, side, volume, price, stop_loss, take_profit, result, ticket, attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Time, o.Instrument, o.Side, o.Volume, o.Price,
		o.StopLoss, o.TakeProfit, o.Result, o.Ticket, o.Attempts,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
