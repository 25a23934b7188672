package batch

import (
	"context"
	"encoding/json"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/request"
	"ozonseller_api/internal/ozon/business/services/validate"
	"ozonseller_api/metrics"
	"ozonseller_api/pkg/logger"
)

type Executor interface {
	Execute(ctx context.Context, op request.Operation, payload interface{}) (json.RawMessage, error)
}

// Updater отправляет пакеты цен и остатков и сводит ответ по позициям.
type Updater struct {
	exec      Executor
	validator *validate.Validator
	log       logger.Logger
	strict    bool
}

func NewUpdater(exec Executor, validator *validate.Validator, log logger.Logger, strict bool) *Updater {
	return &Updater{exec: exec, validator: validator, log: log, strict: strict}
}

func (u *Updater) ImportPrices(ctx context.Context, prices []models.PriceUpdate, validateFirst bool) ([]models.BatchItemResult, error) {
	if validateFirst {
		if err := u.validator.ValidatePrices(prices); err != nil {
			return nil, err
		}
	}
	refs := make([]models.ItemRef, 0, len(prices))
	for _, p := range prices {
		refs = append(refs, p.Ref())
	}
	return u.run(ctx, request.OpImportPrices, prices, refs)
}

func (u *Updater) ImportStocks(ctx context.Context, stocks []models.StockUpdate, validateFirst bool) ([]models.BatchItemResult, error) {
	if validateFirst {
		if err := u.validator.ValidateStocks(stocks); err != nil {
			return nil, err
		}
	}
	refs := make([]models.ItemRef, 0, len(stocks))
	for _, s := range stocks {
		refs = append(refs, s.Ref())
	}
	return u.run(ctx, request.OpImportStocks, stocks, refs)
}

func (u *Updater) run(ctx context.Context, op request.Operation, payload interface{}, refs []models.ItemRef) ([]models.BatchItemResult, error) {
	body, err := u.exec.Execute(ctx, op, payload)
	if err != nil {
		return nil, err
	}
	results, err := Aggregate(refs, body, u.strict)
	if err != nil {
		u.log.Error("%s: %s", op, err)
		return nil, err
	}

	var updated, notFound, failed int
	for _, res := range results {
		outcome := Outcome(res)
		switch outcome {
		case OutcomeUpdated:
			updated++
		case OutcomeNotFound:
			notFound++
		default:
			failed++
		}
		metrics.RecordBatchItem(string(op), outcome)
	}
	u.log.Log("%s: %d submitted, %d updated, %d not found, %d failed", op, len(refs), updated, notFound, failed)
	return results, nil
}

const (
	OutcomeUpdated  = "updated"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Outcome -- метка результата позиции для метрик и сводок.
func Outcome(res models.BatchItemResult) string {
	switch {
	case res.Updated:
		return OutcomeUpdated
	case res.NotFound():
		return OutcomeNotFound
	}
	return OutcomeFailed
}
