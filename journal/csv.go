package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CSVJournal appends decisions and orders to two flat files. Rows are flushed
// per record so a crash loses at most the in-flight write.
type CSVJournal struct {
	decisionsFile *os.File
	ordersFile    *os.File
	decisions     *csv.Writer
	orders        *csv.Writer
}

func NewCSV(decisionsPath, ordersPath string) (*CSVJournal, error) {
	df, err := os.OpenFile(decisionsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open decisions file: %w", err)
	}
	of, err := os.OpenFile(ordersPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		df.Close()
		return nil, fmt.Errorf("open orders file: %w", err)
	}

	j := &CSVJournal{
		decisionsFile: df,
		ordersFile:    of,
		decisions:     csv.NewWriter(df),
		orders:        csv.NewWriter(of),
	}

	// Headers only on fresh files.
	if st, err := df.Stat(); err == nil && st.Size() == 0 {
		j.decisions.Write([]string{"id", "time", "instrument", "strategy", "signal",
			"strong", "allowed", "stage", "reason", "margin", "total_margin"})
		j.decisions.Flush()
	}
	if st, err := of.Stat(); err == nil && st.Size() == 0 {
		j.orders.Write([]string{"id", "time", "instrument", "side", "volume",
			"price", "stop_loss", "take_profit", "result", "ticket", "attempts"})
		j.orders.Flush()
	}

	return j, nil
}

func (j *CSVJournal) RecordDecision(d DecisionRecord) error {
	err := j.decisions.Write([]string{
		d.ID,
		d.Time.UTC().Format(time.RFC3339),
		d.Instrument,
		d.Strategy,
		d.Signal,
		strconv.FormatBool(d.Strong),
		strconv.FormatBool(d.Allowed),
		d.Stage,
		d.Reason,
		strconv.FormatFloat(d.Margin, 'f', 2, 64),
		strconv.FormatFloat(d.TotalMargin, 'f', 2, 64),
	})
	if err != nil {
		return err
	}
	j.decisions.Flush()
	return j.decisions.Error()
}

func (j *CSVJournal) RecordOrder(o OrderRecord) error {
	err := j.orders.Write([]string{
		o.ID,
		o.Time.UTC().Format(time.RFC3339),
		o.Instrument,
		o.Side,
		strconv.FormatFloat(o.Volume, 'f', 2, 64),
		strconv.FormatFloat(o.Price, 'f', 5, 64),
		strconv.FormatFloat(o.StopLoss, 'f', 5, 64),
		strconv.FormatFloat(o.TakeProfit, 'f', 5, 64),
		o.Result,
		o.Ticket,
		strconv.Itoa(o.Attempts),
	})
	if err != nil {
		return err
	}
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) Close() error {
	j.decisions.Flush()
	j.orders.Flush()
	derr := j.decisionsFile.Close()
	oerr := j.ordersFile.Close()
	if derr != nil {
		return derr
	}
	return oerr
}
