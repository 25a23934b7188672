package postgres

import (
	"database/sql"
	"fmt"
	_ "github.com/lib/pq"
	"ozonseller_api/config"
	"ozonseller_api/pkg/logger"
	"sync"
	"time"
)

const maxRetries = 10
const dbMaxOpenConns = 20
const retryDelay = 5 * time.Second

type opener func(driverName, dataSourceName string) (*sql.DB, error)

type PostgresDatabase struct {
	config.DbConfig
	db         *sql.DB
	mu         sync.Mutex
	log        logger.Logger
	open       opener
	retries    int
	retryDelay time.Duration
}

func NewPgConnector(dbConfig config.DbConfig, log logger.Logger) *PostgresDatabase {
	return &PostgresDatabase{
		DbConfig:   dbConfig,
		log:        log,
		open:       sql.Open,
		retries:    maxRetries,
		retryDelay: retryDelay,
	}
}

func (pg *PostgresDatabase) Connect() (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	var err error
	conStr := pg.GetConnectionString()

	for i := 0; i < pg.retries; i++ {
		var db *sql.DB
		db, err = pg.open("postgres", conStr)
		if err != nil {
			pg.log.Error("Failed to connect to Postgres (attempt %d/%d): %s", i+1, pg.retries, err)
			time.Sleep(pg.retryDelay)
			continue
		}

		db.SetMaxOpenConns(dbMaxOpenConns)

		if err = db.Ping(); err != nil {
			pg.log.Error("Failed to ping Postgres db (attempt %d/%d): %s", i+1, pg.retries, err)
			db.Close()
			time.Sleep(pg.retryDelay)
			continue
		}

		pg.log.Log("Successfully connected to Postgres")
		pg.db = db
		return pg.db, nil
	}
	return nil, fmt.Errorf("postgres unavailable after %d attempts: %w", pg.retries, err)
}

func (pg *PostgresDatabase) Ping() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return fmt.Errorf("database connection is not established")
	}

	if err := pg.db.Ping(); err != nil {
		pg.db.Close()
		pg.db = nil
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
