package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// InvalidJSONPayload -- каноничное сообщение Ozon о пустом или битом теле запроса.
// Вызывающий код сравнивает его побайтно, менять нельзя.
const InvalidJSONPayload = "Invalid JSON payload"

type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindAccessDenied
	KindValidationFailed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindAccessDenied:
		return "access denied"
	case KindValidationFailed:
		return "validation failed"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Violation -- нарушение для одного поля, клиентское или пришедшее от сервера.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error -- закрытый набор ошибок, которые видит вызывающий код.
type Error struct {
	Kind       Kind            `json:"-"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	Status     int             `json:"status,omitempty"`
	Violations []Violation     `json:"violations,omitempty"`
	Err        error           `json:"-"`
}

var (
	ErrBadRequest       = &Error{Kind: KindBadRequest}
	ErrAccessDenied     = &Error{Kind: KindAccessDenied}
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("ozon: %s: %s", e.Kind, e.Message)
	if len(e.Violations) > 0 {
		fields := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			fields = append(fields, v.Field)
		}
		msg += " (" + strings.Join(fields, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает только вид ошибки, чтобы работало errors.Is(err, apierr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string, data []byte) *Error {
	return &Error{Kind: kind, Message: message, Data: normalizeData(data)}
}

func BadRequest(message string, data []byte) *Error {
	return New(KindBadRequest, message, data)
}

// InvalidPayload -- BadRequest с каноничным сообщением и без данных.
func InvalidPayload() *Error {
	return New(KindBadRequest, InvalidJSONPayload, nil)
}

func AccessDenied(message string, data []byte) *Error {
	return New(KindAccessDenied, message, data)
}

func NotFound(message string, data []byte) *Error {
	return New(KindNotFound, message, data)
}

func ValidationFailed(message string, violations []Violation, data []byte) *Error {
	e := New(KindValidationFailed, message, data)
	e.Violations = violations
	return e
}

// Transport оборачивает ошибку соединения: ответа не было, значит BadRequest.
func Transport(err error) *Error {
	return &Error{Kind: KindBadRequest, Message: "no response from transport", Err: err}
}

// RemoteError -- код и сообщение, которые прислал сервер. Хранится в Error.Err,
// когда ответ сводится к каноничному BadRequest.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code == "":
		return "server: " + e.Message
	case e.Message == "":
		return "server: " + e.Code
	}
	return "server: " + e.Code + " " + e.Message
}

func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusTooManyRequests
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// normalizeData превращает null, [] и {} в отсутствие данных.
func normalizeData(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "[]", "{}", `""`:
		return nil
	}
	out := make(json.RawMessage, len(trimmed))
	copy(out, trimmed)
	return out
}
