package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"ozonseller_api/internal/ozon/business/models"
	"time"
)

var ErrTaskNotFound = errors.New("import task not found in journal")

// ImportTask -- запись журнала об отправленной задаче импорта.
type ImportTask struct {
	ID         uuid.UUID
	TaskID     models.TaskID
	Operation  string
	OfferIDs   []string
	ItemCount  int
	State      models.TaskState
	LastStatus *models.TaskStatus
	Attempts   int
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Save(ctx context.Context, task *ImportTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.State == "" {
		task.State = models.TaskSubmitted
	}
	if task.OfferIDs == nil {
		task.OfferIDs = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ozon.import_tasks (id, task_id, operation, offer_ids, item_count, state)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, int64(task.TaskID), task.Operation, pq.Array(task.OfferIDs), task.ItemCount, string(task.State))
	if err != nil {
		return fmt.Errorf("failed to save import task %d: %w", task.TaskID, err)
	}
	return nil
}

const selectTask = `SELECT id, task_id, operation, offer_ids, item_count, state, last_status, attempts, last_error, created_at, updated_at FROM ozon.import_tasks`

func (r *TaskRepository) Get(ctx context.Context, id models.TaskID) (*ImportTask, error) {
	row := r.db.QueryRowContext(ctx, selectTask+` WHERE task_id = $1`, int64(id))
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return task, err
}

// Pending возвращает нерешённые задачи, старые первыми. Задачи, у которых
// maxAttempts опросов подряд закончились ошибкой, пропускаются; maxAttempts <= 0 снимает ограничение.
func (r *TaskRepository) Pending(ctx context.Context, limit, maxAttempts int) ([]ImportTask, error) {
	query := selectTask + ` WHERE state <> $1 ORDER BY created_at LIMIT $2`
	args := []interface{}{string(models.TaskResolved), limit}
	if maxAttempts > 0 {
		query = selectTask + ` WHERE state <> $1 AND attempts < $3 ORDER BY created_at LIMIT $2`
		args = append(args, maxAttempts)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []ImportTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tasks, nil
}

// UpdateStatus сохраняет последний опрос. Решённую задачу не трогает,
// так что состояние в журнале двигается только вперёд.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id models.TaskID, state models.TaskState, status *models.TaskStatus) (bool, error) {
	raw, err := json.Marshal(status)
	if err != nil {
		return false, fmt.Errorf("failed to marshal task status: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE ozon.import_tasks SET state = $2, last_status = $3, attempts = 0, last_error = NULL, updated_at = now()
		WHERE task_id = $1 AND state <> $4`,
		int64(id), string(state), raw, string(models.TaskResolved))
	if err != nil {
		return false, fmt.Errorf("failed to update task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return n > 0, nil
}

// RecordFailure отмечает неудачный опрос нерешённой задачи.
func (r *TaskRepository) RecordFailure(ctx context.Context, id models.TaskID, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ozon.import_tasks SET attempts = attempts + 1, last_error = $2, updated_at = now()
		WHERE task_id = $1 AND state <> $3`,
		int64(id), reason, string(models.TaskResolved))
	if err != nil {
		return fmt.Errorf("failed to record failure of task %d: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*ImportTask, error) {
	var (
		task   ImportTask
		taskID int64
		state  string
		status []byte
		reason sql.NullString
	)
	err := s.Scan(&task.ID, &taskID, &task.Operation, pq.Array(&task.OfferIDs), &task.ItemCount, &state, &status,
		&task.Attempts, &reason, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan import task: %w", err)
	}
	task.TaskID = models.TaskID(taskID)
	task.State = models.TaskState(state)
	task.LastError = reason.String
	if len(status) > 0 {
		task.LastStatus = &models.TaskStatus{}
		if err := json.Unmarshal(status, task.LastStatus); err != nil {
			return nil, fmt.Errorf("failed to decode status of task %d: %w", taskID, err)
		}
	}
	return &task, nil
}
