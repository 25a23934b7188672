package batch

import (
	"encoding/json"
	"fmt"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
)

const notUpdatedMessage = "item was not updated, server gave no reason"

// Aggregate разбирает ответ пакетного обновления в результаты по позициям.
// Порядок ответа сохраняется; позиции сверяются с отправленными по product_id
// или offer_id, не по индексу. Ошибки отдельных позиций не поднимаются до
// ошибки вызова. В strict-режиме расхождение набора позиций -- BadRequest.
func Aggregate(submitted []models.ItemRef, raw json.RawMessage, strict bool) ([]models.BatchItemResult, error) {
	var results []models.BatchItemResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, apierr.BadRequest(fmt.Sprintf("malformed batch result: %s", err), raw)
	}

	for i := range results {
		if !results[i].Updated && len(results[i].Errors) == 0 {
			results[i].Errors = []models.ItemError{{Code: models.ErrCodeNotUpdated, Message: notUpdatedMessage}}
		}
		if results[i].Errors == nil {
			results[i].Errors = []models.ItemError{}
		}
	}

	if strict {
		if err := reconcile(submitted, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func reconcile(submitted []models.ItemRef, results []models.BatchItemResult) error {
	var missing []models.ItemRef
	matched := make([]bool, len(results))
	for _, ref := range submitted {
		found := false
		for i, res := range results {
			if !matched[i] && ref.Matches(res) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, ref)
		}
	}

	var unexpected []models.ItemRef
	for i, ok := range matched {
		if !ok {
			unexpected = append(unexpected, models.ItemRef{ProductID: results[i].ProductID, OfferID: results[i].OfferID})
		}
	}

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	data, _ := json.Marshal(struct {
		Missing    []models.ItemRef `json:"missing,omitempty"`
		Unexpected []models.ItemRef `json:"unexpected,omitempty"`
	}{missing, unexpected})
	return apierr.BadRequest(fmt.Sprintf("batch result does not match submission: %d submitted, %d returned, %d missing, %d unexpected",
		len(submitted), len(results), len(missing), len(unexpected)), data)
}
