// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citehist/pkg/types"
)

// DefaultColumn is the header looked up in tabular input.
const DefaultColumn = "name"

// NameFile is the YAML form of a batch input file.
type NameFile struct {
	Authors []string `yaml:"authors"`
}

// ReadNames loads author names from path. The format follows the extension:
// .csv and .tsv are read as delimited tables with a header row, taking the
// named column (first column when the header has no such name). A
// single-column table whose first row is not the column name has no header,
// and every row is a name; .yaml and
// .yml hold an authors list; .txt holds one name per line. Blank names are
// dropped and order is preserved.
func ReadNames(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name file: %w", err)
	}
	defer f.Close()

	var names []string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		names, err = readTable(f, ',', column)
	case ".tsv":
		names, err = readTable(f, '\t', column)
	case ".yaml", ".yml":
		names, err = readYAML(f)
	case ".txt":
		names, err = readLines(f)
	default:
		return nil, fmt.Errorf("%w: unsupported name file extension %q", types.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return compact(names), nil
}

func readTable(r io.Reader, comma rune, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if comma == '\t' {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx, found := columnIndex(header, column)
	var names []string
	if !found && len(header) == 1 {
		names = append(names, strings.TrimPrefix(header[0], "\ufeff"))
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if idx < len(record) {
			names = append(names, record[idx])
		}
	}
	return names, nil
}

// columnIndex finds column in header, case-insensitively. It returns 0 and
// false when the column is absent.
func columnIndex(header []string, column string) (int, bool) {
	if column == "" {
		column = DefaultColumn
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), column) {
			return i, true
		}
	}
	return 0, false
}

func readYAML(r io.Reader) ([]string, error) {
	var nf NameFile
	if err := yaml.NewDecoder(r).Decode(&nf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing name file: %w", err)
	}
	return nf.Authors, nil
}

func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
