// Package roster reads, repairs, and rewrites facility roster CSV files.
//
// A roster carries a facility key column (lab_name) and a Hindi text
// column (hindi_name). Real exports arrive with inconsistent header
// casing, UTF-8 BOMs, and rows torn apart by unquoted commas, so every
// operation here resolves columns case-insensitively, reconciles ragged
// rows before touching them, and publishes results through a staging file
// renamed over the original only after the write fully succeeds.
package roster

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Canonical roster column names. Input headers are matched against these
// case-insensitively; output headers are rewritten to them.
const (
	KeyColumn  = "lab_name"
	TextColumn = "hindi_name"
)

// StagingSuffix is appended to the operand path for the temporary file
// written before the atomic rename.
const StagingSuffix = ".shuddhi.tmp"

// ConfigError reports a roster whose header lacks a required column. The
// pass aborts before any output exists and the operand file is untouched.
type ConfigError struct {
	Path   string
	Column string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: required column %q not found in header", e.Path, e.Column)
}

// Transform rewrites the text field of one roster row. It receives the
// row's key and current text and returns the replacement text.
type Transform func(key, text string) string

// Pass applies a transform to every data row of a roster file and
// atomically replaces the file with the result.
type Pass struct {
	// Name tags log records for this pass.
	Name string

	// Transform rewrites the text field. Required.
	Transform Transform

	// Logger receives debug records for each run. Nil discards them.
	Logger *slog.Logger
}

// PassReport summarizes one pass run.
type PassReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Rows is the number of data rows written.
	Rows int

	// Changed counts rows whose text field was actually modified, not
	// rows a rule merely matched.
	Changed int

	// Anomalies counts rows that could not be reconciled and were
	// carried through unchanged.
	Anomalies int
}

// Run executes the pass against the roster at path. The header is read
// first and the key and text columns resolved; a missing column is a
// *ConfigError and nothing is written. Data rows are reconciled, fed
// through the transform, and written fully quoted to a staging file that
// replaces the original via rename. Row-level anomalies degrade to
// identity and never abort the run.
func (p *Pass) Run(path string) (*PassReport, error) {
	if p.Transform == nil {
		return nil, fmt.Errorf("pass %s: no transform configured", p.Name)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	report := &PassReport{RunID: uuid.NewString()}
	logger = logger.With("pass", p.Name, "run_id", report.RunID, "path", path)

	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer in.Close()

	reader := newRosterReader(in)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(path, header)
	if err != nil {
		return nil, err
	}

	expect := len(header)
	logger.Debug("columns resolved", "key", cols.key, "text", cols.text, "width", expect)

	err = writeStaged(path, func(w *bufio.Writer) error {
		if _, err := w.WriteString(quoteAll(canonicalHeader(header, cols)) + "\n"); err != nil {
			return err
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				report.Anomalies++
				logger.Debug("skipping unreadable row", "error", err)
				continue
			}

			row := Reconcile(record, expect, cols.text)
			if len(row) == expect {
				next := p.Transform(row[cols.key], row[cols.text])
				if next != row[cols.text] {
					row[cols.text] = next
					report.Changed++
				}
			} else {
				report.Anomalies++
			}

			report.Rows++
			if _, err := w.WriteString(quoteAll(row) + "\n"); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("pass complete",
		"rows", report.Rows, "changed", report.Changed, "anomalies", report.Anomalies)
	return report, nil
}

// columns holds the resolved positions of the key and text fields.
type columns struct {
	key  int
	text int
}

// newRosterReader builds a CSV reader tolerant of the damage rosters
// arrive with: ragged widths and sloppy quoting.
func newRosterReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// normalizeHeaderCell prepares a header cell for comparison: strip a UTF-8
// BOM, trim whitespace, lowercase.
func normalizeHeaderCell(cell string) string {
	cell = strings.TrimPrefix(cell, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(cell))
}

// resolveColumns locates the key and text columns in a header row. The
// first cell matching each canonical name wins.
func resolveColumns(path string, header []string) (columns, error) {
	cols := columns{key: -1, text: -1}
	for i, cell := range header {
		switch normalizeHeaderCell(cell) {
		case KeyColumn:
			if cols.key == -1 {
				cols.key = i
			}
		case TextColumn:
			if cols.text == -1 {
				cols.text = i
			}
		}
	}

	if cols.key == -1 {
		return cols, &ConfigError{Path: path, Column: KeyColumn}
	}
	if cols.text == -1 {
		return cols, &ConfigError{Path: path, Column: TextColumn}
	}
	return cols, nil
}

// canonicalHeader rewrites the resolved key and text cells to their
// canonical names. Other columns keep their original names minus any BOM.
func canonicalHeader(header []string, cols columns) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		out[i] = strings.TrimPrefix(cell, "\uFEFF")
	}
	out[cols.key] = KeyColumn
	out[cols.text] = TextColumn
	return out
}

// quoteAll renders a record with every field double-quoted and inner
// quotes doubled, so embedded commas survive any downstream parser.
// encoding/csv only quotes on demand, hence the hand-rolled writer.
func quoteAll(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// writeStaged writes output to path+StagingSuffix and renames it over the
// original only after the write fully succeeds. On any failure the staging
// file is removed and the operand survives intact.
func writeStaged(path string, write func(w *bufio.Writer) error) error {
	tmpPath := path + StagingSuffix

	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}

	w := bufio.NewWriter(out)
	if err := write(w); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush staging file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close staging file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace roster: %w", err)
	}
	return nil
}
