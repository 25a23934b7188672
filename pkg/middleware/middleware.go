package middleware

import "ozonseller_api/pkg/transport"

// Middleware оборачивает Transport дополнительным поведением.
type Middleware func(next transport.Transport) transport.Transport

// Chain применяет middlewares так, что первый в списке выполняется первым.
func Chain(t transport.Transport, middlewares ...Middleware) transport.Transport {
	for i := len(middlewares) - 1; i >= 0; i-- {
		t = middlewares[i](t)
	}
	return t
}
