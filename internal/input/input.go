// Package input loads the candidate profile urls for a crawl.
package input

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Column is the name the single input column is renamed to.
const Column = "Twitter_Link"

// ErrInput marks a missing or malformed input source.
var ErrInput = errors.New("invalid input")

// LoadCSV reads a single column csv file with a header row. Blank cells are
// skipped and values are trimmed. Validation is left to the caller.
func LoadCSV(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %w", ErrInput, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %w", ErrInput, path, err)
	}
	if len(header) != 1 {
		return nil, fmt.Errorf("%w: %s has %d columns, expected a single %s column", ErrInput, path, len(header), Column)
	}

	var urls []string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: could not read %s: %w", ErrInput, path, err)
		}
		if len(row) != 1 {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: %s line %d has %d columns", ErrInput, path, line, len(row))
		}
		if v := strings.TrimSpace(row[0]); v != "" {
			urls = append(urls, v)
		}
	}
	return urls, nil
}

// LoadLines reads one url per line, e.g. from stdin.
func LoadLines(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if v := strings.TrimSpace(sc.Text()); v != "" {
			urls = append(urls, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return urls, nil
}
