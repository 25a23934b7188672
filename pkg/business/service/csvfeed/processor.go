package csvfeed

import (
	"encoding/csv"
	"fmt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"io"
	"strings"
)

type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1251 Encoding = "windows-1251"
)

// Row -- одна строка фида: колонка -> сконвертированное значение. Пустые ячейки отсутствуют.
type Row map[string]interface{}

// Processor читает CSV фида поставщика и раскладывает ячейки по колонкам.
type Processor struct {
	columns          []string
	columnConverters map[string]ColumnConverter
	separator        rune
	encoding         Encoding
}

func NewProcessor(columns []string, converters map[string]ColumnConverter) *Processor {
	if converters == nil {
		converters = map[string]ColumnConverter{}
	}
	return &Processor{
		columns:          columns,
		columnConverters: converters,
		separator:        ';',
		encoding:         Windows1251,
	}
}

func (p *Processor) SetSeparator(separator rune) *Processor {
	if separator != 0 {
		p.separator = separator
	}
	return p
}

func (p *Processor) SetEncoding(encoding Encoding) *Processor {
	if encoding != "" {
		p.encoding = encoding
	}
	return p
}

// ProcessCSV возвращает строки фида. Если первая строка похожа на заголовок,
// колонки ищутся по имени, иначе берутся по порядку.
func (p *Processor) ProcessCSV(reader io.Reader) ([]Row, error) {
	if p.encoding == Windows1251 {
		reader = transform.NewReader(reader, charmap.Windows1251.NewDecoder())
	}
	csvReader := csv.NewReader(reader)
	csvReader.Comma = p.separator
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("csv data is empty")
	}

	header := p.columns
	data := allRows
	if p.isHeader(allRows[0]) {
		header = normalizeHeader(allRows[0])
		data = allRows[1:]
	}

	columnMap := make(map[string]int, len(header))
	for i, col := range header {
		columnMap[col] = i
	}

	rows := make([]Row, 0, len(data))
	for lineNo, record := range data {
		if isBlank(record) {
			continue
		}
		row := make(Row, len(p.columns))
		for _, col := range p.columns {
			idx, ok := columnMap[col]
			if !ok || idx >= len(record) {
				continue
			}
			conv, exists := p.columnConverters[col]
			if !exists {
				conv = DefaultConverter
			}
			val, err := conv(record[idx])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q, value %q: %w", lineNo+1, col, record[idx], err)
			}
			if val != nil {
				row[col] = val
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *Processor) isHeader(record []string) bool {
	for _, cell := range normalizeHeader(record) {
		for _, col := range p.columns {
			if cell == col {
				return true
			}
		}
	}
	return false
}

func normalizeHeader(record []string) []string {
	out := make([]string, len(record))
	for i, cell := range record {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
	}
	return out
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
