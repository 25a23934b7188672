package product

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/batch"
	"ozonseller_api/internal/ozon/business/services/request"
	"ozonseller_api/internal/ozon/business/services/tasks"
	"ozonseller_api/internal/ozon/business/services/validate"
	"ozonseller_api/pkg/logger"
	"ozonseller_api/pkg/transport"
)

// Service -- методы товаров Ozon Seller API v1.
// Безопасен для конкурентного использования: всё состояние задаётся при создании.
type Service struct {
	exec      *request.Executor
	validator *validate.Validator
	tracker   *tasks.Tracker
	updater   *batch.Updater
	log       logger.Logger
}

type Option func(*options)

type options struct {
	strict bool
}

// WithStrictBatches включает сверку ответа пакетных обновлений с отправленными позициями.
func WithStrictBatches(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func NewService(creds request.Credentials, t transport.Transport, log logger.Logger, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	builder, err := request.NewBuilder(creds)
	if err != nil {
		return nil, err
	}
	exec := request.NewExecutor(builder, t, log)
	validator := validate.NewValidator()

	return &Service{
		exec:      exec,
		validator: validator,
		tracker:   tasks.NewTracker(exec, validator, log),
		updater:   batch.NewUpdater(exec, validator, log, o.strict),
		log:       log,
	}, nil
}

// Classify возвращает ответ классификатора как есть.
func (s *Service) Classify(ctx context.Context, products []models.ProductPayload) (json.RawMessage, error) {
	return s.exec.Execute(ctx, request.OpClassify, products)
}

func (s *Service) Import(ctx context.Context, items models.ImportBatch, validateFirst bool) (models.TaskID, error) {
	return s.tracker.Submit(ctx, items, validateFirst)
}

func (s *Service) ImportBySku(ctx context.Context, items []models.SkuImportItem, validateFirst bool) (models.TaskID, error) {
	return s.tracker.SubmitBySku(ctx, items, validateFirst)
}

func (s *Service) ImportInfo(ctx context.Context, id models.TaskID) (*models.TaskStatus, error) {
	return s.tracker.Poll(ctx, id)
}

// Info возвращает карточку товара. Числа остаются json.Number, чтобы не терять точность.
func (s *Service) Info(ctx context.Context, ref models.ItemRef) (models.ProductPayload, error) {
	body, err := s.exec.Execute(ctx, request.OpInfo, ref)
	if err != nil {
		return nil, err
	}
	var payload models.ProductPayload
	if err := decode(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Service) InfoStocks(ctx context.Context, page models.Pagination) (*models.PagedResult, error) {
	return s.paged(ctx, request.OpInfoStocks, page.WithDefaults())
}

func (s *Service) InfoPrices(ctx context.Context, page models.Pagination) (*models.PagedResult, error) {
	return s.paged(ctx, request.OpInfoPrices, page.WithDefaults())
}

func (s *Service) List(ctx context.Context, req models.ListRequest) (*models.PagedResult, error) {
	req.Pagination = req.Pagination.WithDefaults()
	return s.paged(ctx, request.OpList, req)
}

func (s *Service) Price(ctx context.Context, filter *models.ProductFilter, page models.Pagination) (*models.PagedResult, error) {
	return s.paged(ctx, request.OpPrice, models.ListRequest{Filter: filter, Pagination: page.WithDefaults()})
}

// Update частично обновляет товар по product_id.
func (s *Service) Update(ctx context.Context, payload models.ProductPayload, validateFirst bool) (bool, error) {
	if validateFirst {
		if err := s.validator.ValidateProduct(payload, validate.ModeUpdate).Err("product update is invalid"); err != nil {
			return false, err
		}
	}
	if payload == nil {
		payload = models.ProductPayload{}
	}
	body, err := s.exec.Execute(ctx, request.OpUpdate, payload)
	if err != nil {
		return false, err
	}
	return flag(body, "updated")
}

func (s *Service) Activate(ctx context.Context, productID int64) (bool, error) {
	return s.toggle(ctx, request.OpActivate, productID)
}

func (s *Service) Deactivate(ctx context.Context, productID int64) (bool, error) {
	return s.toggle(ctx, request.OpDeactivate, productID)
}

func (s *Service) Delete(ctx context.Context, ref models.ItemRef) (bool, error) {
	body, err := s.exec.Execute(ctx, request.OpDelete, ref)
	if err != nil {
		return false, err
	}
	return flag(body, "deleted")
}

func (s *Service) ImportPrices(ctx context.Context, prices []models.PriceUpdate, validateFirst bool) ([]models.BatchItemResult, error) {
	return s.updater.ImportPrices(ctx, prices, validateFirst)
}

func (s *Service) ImportStocks(ctx context.Context, stocks []models.StockUpdate, validateFirst bool) ([]models.BatchItemResult, error) {
	return s.updater.ImportStocks(ctx, stocks, validateFirst)
}

func (s *Service) toggle(ctx context.Context, op request.Operation, productID int64) (bool, error) {
	body, err := s.exec.Execute(ctx, op, map[string]int64{"product_id": productID})
	if err != nil {
		return false, err
	}
	return flag(body, "result")
}

func (s *Service) paged(ctx context.Context, op request.Operation, payload interface{}) (*models.PagedResult, error) {
	body, err := s.exec.Execute(ctx, op, payload)
	if err != nil {
		return nil, err
	}
	var res models.PagedResult
	if err := decode(body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func decode(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return apierr.BadRequest(fmt.Sprintf("unexpected response shape: %s", err), body)
	}
	return nil
}

// flag читает результат вида true или {"<key>": true}.
func flag(body []byte, key string) (bool, error) {
	var b bool
	if err := json.Unmarshal(body, &b); err == nil {
		return b, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if raw, ok := obj[key]; ok && json.Unmarshal(raw, &b) == nil {
			return b, nil
		}
	}
	return false, apierr.BadRequest(fmt.Sprintf("unexpected response shape, want %q flag", key), body)
}
