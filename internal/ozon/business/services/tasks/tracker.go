package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/request"
	"ozonseller_api/internal/ozon/business/services/validate"
	"ozonseller_api/pkg/logger"
)

type Executor interface {
	Execute(ctx context.Context, op request.Operation, payload interface{}) (json.RawMessage, error)
}

// Tracker отправляет пакетный импорт и опрашивает статус задачи.
// Своего состояния нет: всё, что знает трекер, приходит в ответе сервера.
type Tracker struct {
	exec      Executor
	validator *validate.Validator
	log       logger.Logger
}

func NewTracker(exec Executor, validator *validate.Validator, log logger.Logger) *Tracker {
	return &Tracker{exec: exec, validator: validator, log: log}
}

// Submit возвращает id задачи только если сервер его выдал.
// При validateFirst=true невалидный пакет не уходит в сеть.
func (t *Tracker) Submit(ctx context.Context, batch models.ImportBatch, validateFirst bool) (models.TaskID, error) {
	if validateFirst {
		if err := t.validator.ValidateBatch(batch, validate.ModeImport); err != nil {
			return 0, err
		}
	}
	return t.submit(ctx, request.OpImport, batch, len(batch))
}

func (t *Tracker) SubmitBySku(ctx context.Context, items []models.SkuImportItem, validateFirst bool) (models.TaskID, error) {
	if validateFirst {
		batch := make(models.ImportBatch, 0, len(items))
		for _, item := range items {
			batch = append(batch, item.Payload())
		}
		if err := t.validator.ValidateBatch(batch, validate.ModeImportBySku); err != nil {
			return 0, err
		}
	}
	return t.submit(ctx, request.OpImportBySku, items, len(items))
}

func (t *Tracker) submit(ctx context.Context, op request.Operation, payload interface{}, size int) (models.TaskID, error) {
	body, err := t.exec.Execute(ctx, op, payload)
	if err != nil {
		return 0, err
	}
	id, err := taskIDFrom(body)
	if err != nil {
		t.log.Error("%s: %s", op, err)
		return 0, err
	}
	t.log.Log("%s: task %d submitted with %d items", op, id, size)
	return id, nil
}

// Poll делает ровно один запрос статуса. Статусы позиций возвращаются как прислал сервер.
func (t *Tracker) Poll(ctx context.Context, id models.TaskID) (*models.TaskStatus, error) {
	if id <= 0 {
		return nil, apierr.ValidationFailed("task id must be positive",
			[]apierr.Violation{{Field: "task_id", Message: fmt.Sprintf("got %d", id)}}, nil)
	}
	body, err := t.exec.Execute(ctx, request.OpImportInfo, map[string]models.TaskID{"task_id": id})
	if err != nil {
		return nil, err
	}

	var status models.TaskStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apierr.BadRequest(fmt.Sprintf("malformed task status: %s", err), body)
	}
	t.log.Log("task %d: %d/%d items reported, state %s", id, len(status.Items), status.Total, status.State())
	return &status, nil
}

func taskIDFrom(body []byte) (models.TaskID, error) {
	var res struct {
		TaskID json.Number `json:"task_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil || res.TaskID == "" {
		return 0, apierr.BadRequest("response carries no task_id", body)
	}
	n, err := res.TaskID.Int64()
	if err != nil || n <= 0 {
		return 0, apierr.BadRequest(fmt.Sprintf("task_id %q is not a positive integer", res.TaskID), body)
	}
	return models.TaskID(n), nil
}

