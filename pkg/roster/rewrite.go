package roster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// EnforceTwoColumns rewrites a roster file to exactly the canonical
// lab_name,hindi_name layout. Each data row keeps its first field as the
// key and folds everything after the first comma into the text value,
// quoted fields included. The header row is replaced outright, so files
// with extra or misnamed columns come out canonical.
func EnforceTwoColumns(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer in.Close()

	reader := newRosterReader(in)

	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	return writeStaged(path, func(w *bufio.Writer) error {
		if _, err := w.WriteString(quoteAll([]string{KeyColumn, TextColumn}) + "\n"); err != nil {
			return err
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}

			if _, err := w.WriteString(quoteAll(Reconcile(record, 2, 1)) + "\n"); err != nil {
				return err
			}
		}

		return nil
	})
}

// SanitizeLines is the fallback pass for files too damaged for the CSV
// parser. It works on raw text: each line after the header keeps
// everything up to the first comma verbatim and runs the remainder through
// clean. Lines with no comma, and the header line, pass through untouched.
func SanitizeLines(path string, clean func(string) string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return writeStaged(path, func(w *bufio.Writer) error {
		first := true
		for scanner.Scan() {
			line := scanner.Text()

			if first {
				first = false
			} else if idx := strings.Index(line, ","); idx >= 0 {
				line = line[:idx+1] + clean(line[idx+1:])
			}

			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		return scanner.Err()
	})
}
