package classify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
	"strings"
)

// Outcome -- либо тело успешного ответа, либо доменная ошибка.
type Outcome struct {
	Body json.RawMessage
	Err  *apierr.Error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Failure возвращает ошибку как error без typed-nil ловушки.
func (o Outcome) Failure() error {
	if o.Err == nil {
		return nil
	}
	return o.Err
}

// envelope покрывает оба формата ошибок Ozon: v1 {"error": {...}} и v2 {"code", "message", "details"}.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func (e *envelope) code() string {
	if e.Error != nil {
		return e.Error.Code
	}
	var s string
	if json.Unmarshal(e.Code, &s) == nil {
		return s
	}
	return ""
}

func (e *envelope) message() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

func (e *envelope) data() []byte {
	if e.Error != nil {
		return e.Error.Data
	}
	return e.Details
}

type remoteViolation struct {
	Name    string          `json:"name"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Value   json.RawMessage `json:"value"`
}

// Scope -- на что направлен вызов. NotFound на уровне вызова бывает только у ScopeSingle:
// в пакетных и списочных вызовах ненайденный товар -- ошибка позиции, а не всего вызова.
type Scope int

const (
	ScopeMany Scope = iota
	ScopeSingle
)

// Classifier переводит (scope, status, body) в Outcome. Без состояния.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Classify(scope Scope, status int, body []byte) Outcome {
	trimmed := bytes.TrimSpace(body)
	if status >= 200 && status < 300 {
		return success(trimmed)
	}

	var env envelope
	parsed := len(trimmed) > 0 && json.Unmarshal(trimmed, &env) == nil
	code := env.code()

	var err *apierr.Error
	switch {
	case status == http.StatusForbidden:
		err = apierr.AccessDenied(messageOr(env.message(), "Access denied"), env.data())
	case status == http.StatusBadRequest && parsed && isValidationShape(trimmed):
		err = apierr.ValidationFailed(messageOr(env.message(), "Validation failed"), violations(env.data()), env.data())
	case scope == ScopeSingle && (status == http.StatusNotFound || isNotFoundCode(code)):
		err = apierr.NotFound(messageOr(env.message(), "Not found"), env.data())
	case status == http.StatusBadRequest:
		err = apierr.InvalidPayload()
		if parsed && (code != "" || env.message() != "") {
			err.Err = &apierr.RemoteError{Code: code, Message: env.message()}
		}
	default:
		data := env.data()
		if !parsed || len(data) == 0 {
			data = trimmed
		}
		err = apierr.BadRequest(messageOr(env.message(), statusText(status)), data)
	}
	err.Status = status
	return Outcome{Err: err}
}

// ClassifyTransportError -- ответа нет вовсе: соединение, таймаут, отмена.
func (c *Classifier) ClassifyTransportError(err error) Outcome {
	return Outcome{Err: apierr.Transport(err)}
}

func success(body []byte) Outcome {
	if len(body) == 0 || !json.Valid(body) || bytes.Equal(body, []byte("null")) {
		return Outcome{Err: apierr.InvalidPayload()}
	}
	if body[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && len(env.Result) > 0 {
			return Outcome{Body: env.Result}
		}
	}
	return Outcome{Body: json.RawMessage(body)}
}

func violations(data []byte) []apierr.Violation {
	var items []remoteViolation
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]apierr.Violation, 0, len(items))
	for _, item := range items {
		msg := item.Message
		if msg == "" {
			msg = item.Code
		}
		if len(item.Value) > 0 && !bytes.Equal(item.Value, []byte("null")) {
			msg = strings.TrimSpace(msg + " (value " + string(item.Value) + ")")
		}
		out = append(out, apierr.Violation{Field: item.Name, Message: msg})
	}
	return out
}

func isNotFoundCode(code string) bool {
	return code == models.ErrCodeNotFound || code == models.ErrCodeNotFoundError
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

func statusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Unexpected status"
}
