package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Request -- готовый к отправке запрос: транспорт получает его поля как есть.
type Request struct {
	Operation Operation
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
}

type Builder struct {
	creds   Credentials
	baseURL string
	host    string
}

func NewBuilder(creds Credentials) (*Builder, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	host, err := creds.host()
	if err != nil {
		return nil, err
	}
	return &Builder{
		creds:   creds,
		baseURL: strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/"),
		host:    host,
	}, nil
}

// Build сериализует нагрузку в конверт операции и проставляет заголовки.
// Нагрузка не проверяется: это делает валидатор до вызова Build.
func (b *Builder) Build(op Operation, payload interface{}) (*Request, error) {
	r, ok := routes[op]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	body, err := encode(r.shape, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", op, err)
	}

	header := make(http.Header, 4)
	b.creds.SetHeaders(header, b.host)

	return &Request{
		Operation: op,
		Method:    r.method,
		URL:       b.baseURL + r.path,
		Header:    header,
		Body:      body,
	}, nil
}

func encode(shape Shape, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	switch shape {
	case ShapeItems:
		return json.Marshal(map[string]json.RawMessage{"items": asList(raw)})
	case ShapeProducts:
		return json.Marshal(map[string]json.RawMessage{"products": asList(raw)})
	case ShapeArray:
		list := asList(raw)
		if list[0] != '[' {
			return nil, fmt.Errorf("payload must be a list, got %s", kindOf(list))
		}
		return list, nil
	default:
		if isNull(raw) {
			return []byte("{}"), nil
		}
		return raw, nil
	}
}

// asList превращает nil-срез в пустой массив: Ozon отвечает на null иначе, чем на [].
func asList(raw []byte) json.RawMessage {
	if isNull(raw) {
		return json.RawMessage("[]")
	}
	return raw
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func kindOf(raw []byte) string {
	switch raw[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	}
	return "scalar"
}
