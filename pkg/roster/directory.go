package roster

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Directory is an in-memory index over a roster file for facility name
// lookup. Matching runs in three ordered tiers, all case-insensitive:
// exact key equality, then key containing the query, then query containing
// the key. Within a tier the earliest row in the file wins.
type Directory struct {
	entries []dirEntry
}

type dirEntry struct {
	key    string
	folded string
	text   string
}

// LoadDirectory reads a roster into a Directory. Rows are reconciled the
// same way a pass reconciles them; rows with an empty key or empty text
// are not indexed.
func LoadDirectory(path string) (*Directory, error) {
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
	dir := &Directory{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		row := Reconcile(record, expect, cols.text)
		if len(row) != expect {
			continue
		}

		key := strings.TrimSpace(row[cols.key])
		text := strings.TrimSpace(row[cols.text])
		if key == "" || text == "" {
			continue
		}

		dir.entries = append(dir.entries, dirEntry{
			key:    key,
			folded: strings.ToLower(key),
			text:   text,
		})
	}

	return dir, nil
}

// Len reports the number of indexed rows.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Lookup resolves a facility name to its Hindi text.
func (d *Directory) Lookup(name string) (string, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return "", false
	}

	for _, e := range d.entries {
		if e.folded == query {
			return e.text, true
		}
	}
	for _, e := range d.entries {
		if strings.Contains(e.folded, query) {
			return e.text, true
		}
	}
	for _, e := range d.entries {
		if strings.Contains(query, e.folded) {
			return e.text, true
		}
	}

	return "", false
}
