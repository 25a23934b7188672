package middleware

import (
	"context"
	"fmt"
	"golang.org/x/time/rate"
	"net/http"
	"net/url"
	"ozonseller_api/metrics"
	"ozonseller_api/pkg/logger"
	"ozonseller_api/pkg/transport"
	"time"
)

// PrometheusMiddleware записывает метрики по каждому исходящему запросу.
func PrometheusMiddleware(next transport.Transport) transport.Transport {
	return transport.Func(func(ctx context.Context, method, target string, header http.Header, body []byte) (int, []byte, error) {
		start := time.Now()
		status, respBody, err := next.Send(ctx, method, target, header, body)
		metrics.RecordRequest(method, endpointOf(target), status, time.Since(start))
		return status, respBody, err
	})
}

// RateLimit ждёт разрешения лимитера перед отправкой. Повторов не делает.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next transport.Transport) transport.Transport {
		return transport.Func(func(ctx context.Context, method, target string, header http.Header, body []byte) (int, []byte, error) {
			if err := limiter.Wait(ctx); err != nil {
				return 0, nil, fmt.Errorf("rate limiter: %w", err)
			}
			return next.Send(ctx, method, target, header, body)
		})
	}
}

func Logging(log logger.Logger) Middleware {
	return func(next transport.Transport) transport.Transport {
		return transport.Func(func(ctx context.Context, method, target string, header http.Header, body []byte) (int, []byte, error) {
			start := time.Now()
			status, respBody, err := next.Send(ctx, method, target, header, body)
			if err != nil {
				log.Error("%s %s failed after %v: %s", method, endpointOf(target), time.Since(start), err)
				return status, respBody, err
			}
			log.Log("%s %s -> %d (%d bytes sent, %d received, %v)",
				method, endpointOf(target), status, len(body), len(respBody), time.Since(start))
			return status, respBody, err
		})
	}
}

func endpointOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" {
		return target
	}
	return u.Path
}
