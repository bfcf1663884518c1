package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Section is a titled group of label/value lines in a document export.
type Section struct {
	Title  string
	Fields []Field
}

// Field is one label/value line.
type Field struct {
	Label string
	Value string
}

// SectionsToDataset flattens sections into a section/field/value table.
func SectionsToDataset(sections []Section) Dataset {
	data := Dataset{Headers: []string{"section", "field", "value"}}
	for _, s := range sections {
		for _, f := range s.Fields {
			data.Rows = append(data.Rows, map[string]string{
				"section": s.Title,
				"field":   f.Label,
				"value":   f.Value,
			})
		}
	}
	return data
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
