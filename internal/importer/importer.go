// Package importer loads labeled transactions from CSV exports into the
// training table.
package importer

import (
	"bufio"
	"context"
	"errors"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/fintrack/internal/currencyutils"
	"fjacquet/fintrack/internal/dateutils"
	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/storage"

	"github.com/gocarina/gocsv"
)

// TrainingRow is one line of a training CSV. Only description is required;
// an empty category_id marks an uncategorized transaction.
type TrainingRow struct {
	ExternalID  string `csv:"id"`
	Description string `csv:"description"`
	CategoryID  string `csv:"category_id"`
	Amount      string `csv:"amount"`
	Date        string `csv:"date"`
}

// Sink receives the validated rows.
type Sink interface {
	InsertLabeledTransactions(ctx context.Context, txs []storage.LabeledTransaction) (int, error)
}

// Result summarizes an import run.
type Result struct {
	Read     int `json:"read"`
	Imported int `json:"imported"`
	Labeled  int `json:"labeled"`
	Skipped  int `json:"skipped"`
}

// Importer validates CSV rows and writes them to a Sink.
type Importer struct {
	sink   Sink
	logger logging.Logger
}

// NewImporter creates an Importer writing to sink.
func NewImporter(sink Sink, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Importer{sink: sink, logger: logger}
}

// Import reads a comma or semicolon separated file with a header row.
// Rows with an empty description or an unparseable field are skipped and
// logged; the remaining rows are written in one transaction.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readRows(r)
	if err != nil {
		im.logger.WithError(err).Error("Failed to read training CSV")
		return Result{}, err
	}

	res := Result{Read: len(rows)}
	txs := make([]storage.LabeledTransaction, 0, len(rows))
	for i, row := range rows {
		tx, err := convertRow(row)
		if err != nil {
			res.Skipped++
			im.logger.WithError(err).Warn("Skipping training row",
				logging.Field{Key: "line", Value: i + 2})
			continue
		}
		if tx.CategoryID != nil {
			res.Labeled++
		}
		txs = append(txs, tx)
	}

	if len(txs) > 0 {
		n, err := im.sink.InsertLabeledTransactions(ctx, txs)
		if err != nil {
			return res, fmt.Errorf("storing training rows: %w", err)
		}
		res.Imported = n
	}

	im.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: res.Imported},
		logging.Field{Key: "labeled", Value: res.Labeled},
		logging.Field{Key: "skipped", Value: res.Skipped},
	).Info("Imported training data")
	return res, nil
}

func readRows(r io.Reader) ([]*TrainingRow, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.TrimLeadingSpace = true

	var rows []*TrainingRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading training CSV: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the header line holds more semicolons than
// commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	header := string(peek)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func convertRow(row *TrainingRow) (storage.LabeledTransaction, error) {
	desc := strings.TrimSpace(row.Description)
	if desc == "" {
		return storage.LabeledTransaction{}, errors.New("empty description")
	}

	tx := storage.LabeledTransaction{
		ExternalID:  strings.TrimSpace(row.ExternalID),
		Description: desc,
	}

	if raw := strings.TrimSpace(row.CategoryID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return tx, fmt.Errorf("invalid category_id %q", raw)
		}
		tx.CategoryID = &id
	}

	if strings.TrimSpace(row.Amount) != "" {
		amount, err := currencyutils.ParseAmount(row.Amount)
		if err != nil {
			return tx, err
		}
		tx.Amount = currencyutils.Canonical(amount)
	}

	if strings.TrimSpace(row.Date) != "" {
		booked, err := dateutils.ParseDate(row.Date)
		if err != nil {
			return tx, err
		}
		tx.BookedOn = dateutils.ToISODate(booked)
	}

	return tx, nil
}
