package csvfeed

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnConverter превращает ячейку в значение поля. nil значит "поле не задано".
type ColumnConverter func(string) (interface{}, error)

// DecimalConverter оставляет число строкой, как его ждёт Ozon, но проверяет и
// нормализует запятую в точку.
func DecimalConverter(cell string) (interface{}, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", ".")
	if cell == "" {
		return nil, nil
	}
	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		return nil, err
	}
	return cell, nil
}

func IntConverter(cell string) (interface{}, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	return strconv.ParseInt(cell, 10, 64)
}

func DefaultConverter(cell string) (interface{}, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	return cell, nil
}

// ListConverter режет ячейку по запятой, пустые элементы отбрасывает.
func ListConverter(cell string) (interface{}, error) {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// AttributesConverter разбирает "id:value|id:value".
func AttributesConverter(cell string) (interface{}, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	var out []interface{}
	for _, pair := range strings.Split(cell, "|") {
		id, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("attribute %q is not id:value", pair)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("attribute id %q: %w", id, err)
		}
		out = append(out, map[string]interface{}{"id": n, "value": strings.TrimSpace(value)})
	}
	return out, nil
}
