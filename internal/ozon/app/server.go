package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"ozonseller_api/config"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/request"
	"ozonseller_api/internal/ozon/business/services/product"
	"ozonseller_api/internal/ozon/storage"
	"ozonseller_api/metrics"
	"ozonseller_api/migrations/marketplaces/ozon"
	"ozonseller_api/pkg/business/service"
	"ozonseller_api/pkg/business/service/csvfeed"
	"ozonseller_api/pkg/dbconnect"
	"ozonseller_api/pkg/dbconnect/migration"
	"ozonseller_api/pkg/dbconnect/postgres"
	"ozonseller_api/pkg/logger"
	"ozonseller_api/pkg/middleware"
	"ozonseller_api/pkg/transport"
	"syscall"
	"time"
)

// ProductAPI -- часть product.Service, которой пользуется приложение.
type ProductAPI interface {
	Import(ctx context.Context, items models.ImportBatch, validateFirst bool) (models.TaskID, error)
	ImportInfo(ctx context.Context, id models.TaskID) (*models.TaskStatus, error)
	ImportPrices(ctx context.Context, prices []models.PriceUpdate, validateFirst bool) ([]models.BatchItemResult, error)
	ImportStocks(ctx context.Context, stocks []models.StockUpdate, validateFirst bool) ([]models.BatchItemResult, error)
}

// Journal хранит отправленные задачи импорта между запусками.
type Journal interface {
	Save(ctx context.Context, task *storage.ImportTask) error
	Get(ctx context.Context, id models.TaskID) (*storage.ImportTask, error)
	Pending(ctx context.Context, limit, maxAttempts int) ([]storage.ImportTask, error)
	UpdateStatus(ctx context.Context, id models.TaskID, state models.TaskState, status *models.TaskStatus) (bool, error)
	RecordFailure(ctx context.Context, id models.TaskID, reason string) error
}

type OzonServer struct {
	cfg     *config.AppConfig
	api     ProductAPI
	journal Journal
	feed    *csvfeed.Feed
	source  csvfeed.Fetcher
	ping    func() error
	metrics *metrics.ImportMetrics
	log     logger.Logger
	closers []io.Closer
}

type Deps struct {
	API     ProductAPI
	Journal Journal
	Feed    *csvfeed.Feed
	Source  csvfeed.Fetcher
	Ping    func() error
}

func New(cfg *config.AppConfig, deps Deps, log logger.Logger) *OzonServer {
	ping := deps.Ping
	if ping == nil {
		ping = func() error { return nil }
	}
	return &OzonServer{
		cfg:     cfg,
		api:     deps.API,
		journal: deps.Journal,
		feed:    deps.Feed,
		source:  deps.Source,
		ping:    ping,
		metrics: &metrics.ImportMetrics{},
		log:     log,
	}
}

// NewOzonServer собирает приложение из конфига: транспорт с лимитером и метриками,
// сервис товаров, фид и, если включён Postgres, журнал задач.
func NewOzonServer(cfg *config.AppConfig, writer io.Writer) (*OzonServer, error) {
	log := logger.NewLogger(writer, "[OzonServer]")

	api, err := product.NewService(
		request.Credentials{ClientID: cfg.Ozon.ClientID, APIKey: cfg.Ozon.ApiKey, BaseURL: cfg.Ozon.ApiURL},
		newTransport(cfg, log.WithPrefix("[OzonAPI]")),
		log,
		product.WithStrictBatches(cfg.Ozon.StrictBatches),
	)
	if err != nil {
		return nil, err
	}

	deps := Deps{
		API:    api,
		Feed:   csvfeed.NewFeed(separatorOf(cfg.Feed.Separator), csvfeed.Encoding(cfg.Feed.Encoding), service.NewTextService()),
		Source: csvfeed.NewSource(nil),
	}

	var db *sql.DB
	if cfg.Postgres.Enabled {
		var connector dbconnect.Database = postgres.NewPgConnector(&cfg.Postgres, log.WithPrefix("[Postgres]"))
		db, err = connector.Connect()
		if err != nil {
			return nil, fmt.Errorf("journal unavailable: %w", err)
		}
		if err := migration.Apply(db, log, ozon.All()...); err != nil {
			db.Close()
			return nil, err
		}
		deps.Journal = storage.NewTaskRepository(db)
		deps.Ping = connector.Ping
	}

	s := New(cfg, deps, log)
	if db != nil {
		s.closers = append(s.closers, db)
	}
	s.closers = append(s.closers, syncCloser{log})
	return s, nil
}

// syncCloser сбрасывает буфер zap при закрытии сервера.
type syncCloser struct {
	log *logger.BaseLogger
}

func (c syncCloser) Close() error {
	// fsync на терминале и пайпе возвращает EINVAL, это не ошибка записи
	if err := c.log.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return err
	}
	return nil
}

func newTransport(cfg *config.AppConfig, log logger.Logger) transport.Transport {
	var mws []middleware.Middleware
	if cfg.Limits.RequestsPerMinute > 0 {
		burst := cfg.Limits.Burst
		if burst < 1 {
			burst = 1
		}
		limit := rate.Every(time.Minute / time.Duration(cfg.Limits.RequestsPerMinute))
		mws = append(mws, middleware.RateLimit(rate.NewLimiter(limit, burst)))
	}
	mws = append(mws, middleware.Logging(log), middleware.PrometheusMiddleware)

	return middleware.Chain(transport.NewHTTPTransport(&http.Client{Timeout: cfg.Ozon.Timeout}), mws...)
}

func separatorOf(s string) rune {
	for _, r := range s {
		return r
	}
	return ';'
}

func (s *OzonServer) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
