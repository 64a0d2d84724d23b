package parse

import (
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"tidbyt.dev/ttgraph/model"
)

const Delimiter = ';'

// A row as read from a table, with its 1-based record number.
type Row struct {
	Number int
	Cells  []string
}

// Returns a reader for semicolon separated timetable rows. The BOM
// reader strips unicode BOMs if present. Rows may have differing
// numbers of cells.
func NewRowReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(bom.NewReader(in))
	r.Comma = Delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

// Reads all rows. Rows with fewer than 2 cells are headers or
// separators and are skipped.
func ReadRows(r gocsv.CSVReader) ([]Row, error) {
	rows := []Row{}

	for n := 1; ; n++ {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", model.ErrMalformedRow, n, err)
		}

		for i, cell := range cells {
			if !utf8.ValidString(cell) {
				return nil, fmt.Errorf("%w: record %d, column %d: invalid UTF-8", model.ErrMalformedRow, n, i+1)
			}
		}

		if len(cells) < 2 {
			continue
		}

		rows = append(rows, Row{Number: n, Cells: cells})
	}

	return rows, nil
}
