package ozon

import (
	"database/sql"
	"fmt"
	"ozonseller_api/pkg/dbconnect/migration"
)

const (
	ImportTasksMigration         = "ozon.import_tasks"
	ImportTasksStateMigration    = "ozon.import_tasks.state_idx"
	ImportTasksAttemptsMigration = "ozon.import_tasks.attempts"
)

type CreateOzonSchema struct{}

func (m *CreateOzonSchema) UpMigration(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS ozon;`)
	if err != nil {
		return fmt.Errorf("failed to create schema ozon: %w", err)
	}
	return nil
}

// CreateImportTasksTable -- журнал отправленных пакетных импортов и их последнего статуса.
type CreateImportTasksTable struct{}

func (m *CreateImportTasksTable) UpMigration(db *sql.DB) error {
	if ok, err := migration.CheckApplied(db, ImportTasksMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS ozon.import_tasks (
		id UUID PRIMARY KEY,
		task_id BIGINT UNIQUE NOT NULL,
		operation VARCHAR(32) NOT NULL,
		offer_ids TEXT[] NOT NULL DEFAULT '{}',
		item_count INT NOT NULL,
		state VARCHAR(16) NOT NULL,
		last_status JSONB,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`
	return migration.ExecuteAndMark(db, query, ImportTasksMigration)
}

type CreateImportTasksStateIndex struct{}

func (m *CreateImportTasksStateIndex) UpMigration(db *sql.DB) error {
	if ok, err := migration.CheckApplied(db, ImportTasksStateMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `CREATE INDEX IF NOT EXISTS import_tasks_state_idx ON ozon.import_tasks(state) WHERE state <> 'resolved';`
	return migration.ExecuteAndMark(db, query, ImportTasksStateMigration)
}

// AddImportTasksAttempts -- счётчик неудачных опросов подряд и текст последней ошибки.
type AddImportTasksAttempts struct{}

func (m *AddImportTasksAttempts) UpMigration(db *sql.DB) error {
	if ok, err := migration.CheckApplied(db, ImportTasksAttemptsMigration); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	ALTER TABLE ozon.import_tasks
		ADD COLUMN IF NOT EXISTS attempts INT NOT NULL DEFAULT 0,
		ADD COLUMN IF NOT EXISTS last_error TEXT;`
	return migration.ExecuteAndMark(db, query, ImportTasksAttemptsMigration)
}

// All -- миграции журнала в порядке применения.
func All() []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&migration.MigrationsSchema{},
		&CreateOzonSchema{},
		&CreateImportTasksTable{},
		&CreateImportTasksStateIndex{},
		&AddImportTasksAttempts{},
	}
}
