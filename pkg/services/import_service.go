package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/jsonutil"
)

// ImportService parses a semicolon-delimited CSV payload and inserts each
// row through the same create-and-audit path as single product creation.
//
// Parsing is tolerant: a byte-order mark on the header is stripped, header
// names are trimmed and lowercased, ragged rows keep whatever fields they
// have, and a cell that fails numeric coercion becomes NULL instead of an
// error. Rows run sequentially; the first row whose insert fails aborts
// the remaining batch, and rows already inserted stay committed.
type ImportService interface {
	// Import inserts the payload's rows and returns how many succeeded.
	Import(ctx context.Context, csvData string) (int, error)
}

type importService struct {
	products ProductService
	logger   *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(products ProductService, logger *zap.Logger) ImportService {
	return &importService{
		products: products,
		logger:   logger.Named("import-service"),
	}
}

var _ ImportService = (*importService)(nil)

func (s *importService) Import(ctx context.Context, csvData string) (int, error) {
	rows, err := parseCSV(csvData)
	if err != nil {
		return 0, fmt.Errorf("parse csv: %w", err)
	}

	inserted := 0
	for _, row := range rows {
		input := &ProductInput{
			Referencia: textField(row, "referencia"),
			Cor:        textField(row, "cor"),
			X:          jsonutil.IntFromString(row["x"]),
			Y:          jsonutil.IntFromString(row["y"]),
			Rack:       textField(row, "rack"),
			Acab:       textField(row, "acab"),
			Obs:        textField(row, "obs"),
			Marked:     false,
		}

		if _, err := s.products.Create(ctx, input); err != nil {
			s.logger.Error("Import aborted on row failure",
				zap.Int("inserted", inserted),
				zap.Error(err))
			return inserted, fmt.Errorf("import row %d: %w", inserted+1, err)
		}

		inserted++
	}

	s.logger.Info("CSV import complete", zap.Int("rows", inserted))

	return inserted, nil
}

// parseCSV reads a semicolon-delimited payload into one map per data row,
// keyed by normalized header name. Rows with fewer cells than the header
// simply omit the trailing keys.
func parseCSV(csvData string) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	header := normalizeHeader(records[0])

	var rows []map[string]string
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			row[name] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// normalizeHeader trims and lowercases header names and strips a leading
// byte-order mark, so "\uFEFFReferencia " matches the referencia column.
func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return header
}

// textField returns the trimmed cell value, or nil when empty or missing.
func textField(row map[string]string, name string) *string {
	value, ok := row[name]
	if !ok || value == "" {
		return nil
	}
	return &value
}
