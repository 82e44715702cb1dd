package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ecastellanos/relia/internal/common"
)

// LoadCSV reads one source extract from a CSV stream. Parsing is lenient:
// ragged rows are padded or truncated to the header width, because the
// uploads these extracts come from are routinely hand-edited. Only a stream
// that yields no usable header at all is fatal.
func LoadCSV(system System, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &common.SourceUnreadableError{Source: string(system), Err: err}
	}
	if len(header) == 0 {
		return nil, &common.SourceUnreadableError{Source: string(system), Err: common.ErrEmptySource}
	}

	t := &Table{Name: string(system), Columns: append([]string(nil), header...)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &common.SourceUnreadableError{Source: string(system), Err: err}
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadCSVFile reads one source extract from a file on disk.
func LoadCSVFile(system System, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &common.SourceUnreadableError{Source: string(system), Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer func() { _ = f.Close() }()
	return LoadCSV(system, f)
}
