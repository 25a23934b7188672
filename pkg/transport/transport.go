package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Transport выполняет один HTTP-обмен и возвращает код ответа и сырое тело.
// Ошибка возвращается только если ответ не был получен вовсе.
type Transport interface {
	Send(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error)
}

// Func позволяет использовать обычную функцию как Transport.
type Func func(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error)

func (f Func) Send(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error) {
	return f(ctx, method, url, header, body)
}

type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if host := header.Get("Host"); host != "" {
		req.Host = host
	}

	resp, err := t.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return 0, nil, fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return 0, nil, fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
