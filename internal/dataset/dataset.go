// Package dataset inspects a file before it is uploaded.
package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format is the detected kind of a dataset file
type Format string

const (
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatJSON  Format = "json"
	FormatOther Format = "other"
)

// UnknownRows marks a file whose rows could not be counted
const UnknownRows = -1

// counters poll the context once per checkEvery records
const checkEvery = 1024

// Info describes a file selected for upload
type Info struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Size   int64    `json:"size"`
	Format Format   `json:"format"`
	Rows   int      `json:"rows"`
	Sheets []string `json:"sheets,omitempty"`
}

// Inspect stats path and counts its data rows when the format is known.
// A file that cannot be parsed as its extension suggests is still
// reported, with Rows set to UnknownRows.
func Inspect(path string) (*Info, error) {
	return InspectContext(context.Background(), path)
}

// InspectContext is Inspect with cancellation. Counting stops with the
// context's error once ctx is done.
func InspectContext(ctx context.Context, path string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	info := &Info{
		Name:   filepath.Base(path),
		Path:   path,
		Size:   st.Size(),
		Format: DetectFormat(path),
		Rows:   UnknownRows,
	}

	switch info.Format {
	case FormatCSV:
		if n, err := countCSV(ctx, path); err == nil {
			info.Rows = n
		}
	case FormatXLSX:
		if n, sheets, err := countXLSX(ctx, path); err == nil {
			info.Rows = n
			info.Sheets = sheets
		}
	case FormatJSON:
		if n, err := countJSON(ctx, path); err == nil {
			info.Rows = n
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// DetectFormat maps a file extension to a Format
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return FormatOther
	}
}

// RowsLabel renders the row count for status text, e.g. "12,000 rows".
// It returns an empty string when the count is unknown.
func (i *Info) RowsLabel() string {
	if i == nil || i.Rows < 0 {
		return ""
	}
	p := message.NewPrinter(language.English)
	if i.Rows == 1 {
		return "1 row"
	}
	return p.Sprintf("%d rows", i.Rows)
}

// SizeLabel renders the file size in human units
func (i *Info) SizeLabel() string {
	const unit = 1024
	if i.Size < unit {
		return fmt.Sprintf("%d B", i.Size)
	}
	div, exp := int64(unit), 0
	for n := i.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(i.Size)/float64(div), "KMGTPE"[exp])
}

// countCSV counts records after the header line
func countCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 - path is the file the user chose to upload
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	records := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		records++
		if records%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}
	return max(0, records-1), nil
}

// countXLSX counts non-empty rows on every sheet, minus one header row per sheet
func countXLSX(ctx context.Context, path string) (int, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	total := 0
	for _, sheet := range sheets {
		n, err := countSheet(ctx, f, sheet)
		if err != nil {
			return 0, nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		total += max(0, n-1)
	}
	return total, sheets, nil
}

func countSheet(ctx context.Context, f *excelize.File, sheet string) (int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	n, seen := 0, 0
	for rows.Next() {
		seen++
		if seen%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		cols, err := rows.Columns()
		if err != nil {
			return 0, err
		}
		for _, c := range cols {
			if c != "" {
				n++
				break
			}
		}
	}
	return n, rows.Error()
}

// countJSON counts the elements of a top-level array
func countJSON(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 - path is the file the user chose to upload
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return 0, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return UnknownRows, nil
	}

	n := 0
	for dec.More() {
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return 0, err
		}
		n++
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}
