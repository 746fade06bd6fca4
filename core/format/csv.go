package format

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/treetab/treetab/core"
)

var _ core.Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) parseSchemaFul(header core.Header, rows []core.Row) [][]string {
	data := [][]string{
		header,
	}
	for _, row := range rows {
		csvRow := make([]string, len(row))
		for i, cell := range row {
			csvRow[i] = cell.String()
		}
		data = append(data, csvRow)
	}

	return data
}

func (cf *CSV) Format(header core.Header, rows []core.Row, _ *core.FormatterOpts) ([]byte, error) {
	// parse as if schema is defined regardless of schema presence in the result
	data := cf.parseSchemaFul(header, rows)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	err := w.WriteAll(data)
	if err != nil {
		return nil, fmt.Errorf("w.WriteAll: %w", err)
	}

	return b.Bytes(), nil
}
