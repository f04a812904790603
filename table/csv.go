package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/turbot/tailpipe-cleanse/errhandling"
)

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// opts

type CsvOption func(*CsvConfig)

func WithCsvDelimiter(delimiter string) CsvOption {
	return func(c *CsvConfig) {
		c.Delimiter = delimiter
	}
}

func WithCsvComment(comment string) CsvOption {
	return func(c *CsvConfig) {
		c.Comment = comment
	}
}

func WithCsvTrimLeadingSpace(trim bool) CsvOption {
	return func(c *CsvConfig) {
		c.TrimLeadingSpace = trim
	}
}

type CsvConfig struct {
	Delimiter        string
	Comment          string
	TrimLeadingSpace bool
}

func newCsvConfig(opts ...CsvOption) (*CsvConfig, error) {
	config := &CsvConfig{
		Delimiter: ",", // Default delimiter
		Comment:   "",  // No comment character by default
	}
	for _, opt := range opts {
		opt(config)
	}
	if utf8.RuneCountInString(config.Delimiter) != 1 {
		return nil, fmt.Errorf("csv delimiter must be a single character, got '%s'", config.Delimiter)
	}
	if utf8.RuneCountInString(config.Comment) > 1 {
		return nil, fmt.Errorf("csv comment must be a single character, got '%s'", config.Comment)
	}
	return config, nil
}

func (c *CsvConfig) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

func (c *CsvConfig) comment() rune {
	if c.Comment == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Comment)
	return r
}

// ParseCsv parses delimited text into a Dataset. The first record is the header.
// Data rows are not validated against the header width: short and long rows are kept as-is.
// Empty cells are read as null.
func ParseCsv(raw []byte, opts ...CsvOption) (*Dataset, error) {
	config, err := newCsvConfig(opts...)
	if err != nil {
		return nil, errhandling.NewParseError("invalid csv options", err)
	}

	raw = bytes.TrimPrefix(raw, utf8Bom)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errhandling.NewParseError("input is empty", nil)
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = config.delimiter()
	r.Comment = config.comment()
	r.TrimLeadingSpace = config.TrimLeadingSpace
	// rows of any width are accepted
	r.FieldsPerRecord = -1
	// a quote inside an unquoted field is kept as a literal character
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errhandling.NewParseError("header is missing", nil)
	}
	if err != nil {
		return nil, errhandling.NewParseError("failed to read header", err)
	}

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errhandling.NewParseError("failed to read row", err)
		}
		row := make(Row, len(record))
		for i, cell := range record {
			if cell == "" {
				row[i] = Null()
			} else {
				row[i] = String(cell)
			}
		}
		rows = append(rows, row)
	}

	return &Dataset{header: header, rows: rows}, nil
}

// WriteCsv serializes the dataset: the header, then one record per row
func WriteCsv(d *Dataset, opts ...CsvOption) ([]byte, error) {
	config, err := newCsvConfig(opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = config.delimiter()

	if err := w.Write(d.header); err != nil {
		return nil, fmt.Errorf("failed to write header, %w", err)
	}
	for i, row := range d.rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = v.String()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d, %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv writer, %w", err)
	}
	return buf.Bytes(), nil
}
