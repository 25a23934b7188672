package app

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"net/http"
	"ozonseller_api/metrics"
	"time"
)

const shutdownTimeout = 5 * time.Second

func (s *OzonServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", metrics.MetricsHandler())
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *OzonServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if err := s.ping(); err != nil {
		status = map[string]string{"status": "degraded", "error": err.Error()}
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// Watch отдаёт /metrics и /healthz и раз в интервал опрашивает задачи из журнала,
// пока не отменён ctx.
func (s *OzonServer) Watch(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Metrics.Addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		s.log.Log("Serving metrics on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	interval := s.cfg.Watcher.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := s.PollPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error("Polling journal failed: %s", err)
		} else if n > 0 {
			s.log.Log("Polled %d pending tasks", n)
		}

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		case err, ok := <-errCh:
			if ok && err != nil {
				return err
			}
			return nil
		case <-ticker.C:
		}
	}
}
