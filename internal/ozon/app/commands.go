package app

import (
	"context"
	"errors"
	"fmt"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/batch"
	"ozonseller_api/internal/ozon/storage"
	"strconv"
)

const pendingBatchLimit = 100

var ErrUsage = errors.New("usage: import <csv> | status <task-id> | prices <csv> | stocks <csv> | watch")

// Run выполняет одну команду командной строки.
func (s *OzonServer) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "import":
		if len(args) != 2 {
			return ErrUsage
		}
		_, err := s.ImportFeed(ctx, args[1])
		return err
	case "status":
		if len(args) != 2 {
			return ErrUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("task id %q: %w", args[1], err)
		}
		_, err = s.Status(ctx, models.TaskID(id))
		return err
	case "prices":
		if len(args) != 2 {
			return ErrUsage
		}
		_, err := s.PushPrices(ctx, args[1])
		return err
	case "stocks":
		if len(args) != 2 {
			return ErrUsage
		}
		_, err := s.PushStocks(ctx, args[1])
		return err
	case "watch":
		return s.Watch(ctx)
	}
	return ErrUsage
}

// ImportFeed отправляет товары из фида одной задачей и записывает её в журнал.
func (s *OzonServer) ImportFeed(ctx context.Context, location string) (models.TaskID, error) {
	rc, err := s.source.Fetch(ctx, location)
	if err != nil {
		return 0, fmt.Errorf("failed to open feed %s: %w", location, err)
	}
	defer rc.Close()

	items, err := s.feed.Products(rc)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed %s: %w", location, err)
	}

	id, err := s.api.Import(ctx, items, s.cfg.Ozon.ValidateBeforeSend)
	if err != nil {
		return 0, err
	}
	s.log.Log("Feed %s: %d products submitted as task %d", location, len(items), id)

	if s.journal != nil {
		offerIDs := make([]string, 0, len(items))
		for _, item := range items {
			offerIDs = append(offerIDs, item.OfferID())
		}
		task := &storage.ImportTask{TaskID: id, Operation: "import", OfferIDs: offerIDs, ItemCount: len(items)}
		if err := s.journal.Save(ctx, task); err != nil {
			// задача уже создана в Ozon, её id важнее записи в журнале
			s.log.Error("Task %d was submitted but not journaled: %s", id, err)
		}
	}
	return id, nil
}

// Status опрашивает задачу один раз и обновляет журнал.
func (s *OzonServer) Status(ctx context.Context, id models.TaskID) (*models.TaskStatus, error) {
	status, err := s.api.ImportInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	state := models.TaskSubmitted.Advance(status.State())
	s.log.Log("Task %d is %s: %d/%d items reported", id, state, len(status.Items), status.Total)
	for _, item := range status.Items {
		s.log.Log("  offer %s -> product %d: %s", item.OfferID, item.ProductID, item.Status)
	}

	if s.journal != nil {
		s.journalStatus(ctx, id, state, status)
	}
	return status, nil
}

// journalStatus обновляет запись задачи. Задачу, отправленную в обход журнала,
// сначала заводит в нём, чтобы её дальше опрашивал watch.
func (s *OzonServer) journalStatus(ctx context.Context, id models.TaskID, state models.TaskState, status *models.TaskStatus) {
	_, err := s.journal.Get(ctx, id)
	if errors.Is(err, storage.ErrTaskNotFound) {
		offerIDs := make([]string, 0, len(status.Items))
		for _, item := range status.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}
		task := &storage.ImportTask{TaskID: id, Operation: "import", OfferIDs: offerIDs, ItemCount: status.Total}
		if err := s.journal.Save(ctx, task); err != nil {
			s.log.Error("Failed to journal task %d: %s", id, err)
			return
		}
		s.log.Log("Task %d was not in the journal, tracking it from now on", id)
	} else if err != nil {
		s.log.Error("Failed to read task %d from journal: %s", id, err)
		return
	}
	if _, err := s.journal.UpdateStatus(ctx, id, state, status); err != nil {
		s.log.Error("Failed to journal status of task %d: %s", id, err)
	}
}

func (s *OzonServer) PushPrices(ctx context.Context, location string) ([]models.BatchItemResult, error) {
	rc, err := s.source.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed %s: %w", location, err)
	}
	defer rc.Close()

	prices, err := s.feed.Prices(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", location, err)
	}
	results, err := s.api.ImportPrices(ctx, prices, s.cfg.Ozon.ValidateBeforeSend)
	if err != nil {
		return nil, err
	}
	s.summarize("prices", len(prices), results)
	return results, nil
}

func (s *OzonServer) PushStocks(ctx context.Context, location string) ([]models.BatchItemResult, error) {
	rc, err := s.source.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed %s: %w", location, err)
	}
	defer rc.Close()

	stocks, err := s.feed.Stocks(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", location, err)
	}
	results, err := s.api.ImportStocks(ctx, stocks, s.cfg.Ozon.ValidateBeforeSend)
	if err != nil {
		return nil, err
	}
	s.summarize("stocks", len(stocks), results)
	return results, nil
}

func (s *OzonServer) summarize(kind string, submitted int, results []models.BatchItemResult) {
	s.metrics.Reset()
	s.metrics.SubmittedCount.Store(int32(submitted))
	for _, res := range results {
		switch batch.Outcome(res) {
		case batch.OutcomeUpdated:
			s.metrics.UpdatedCount.Add(1)
		case batch.OutcomeNotFound:
			s.metrics.NotFoundCount.Add(1)
		default:
			s.metrics.FailedCount.Add(1)
			for _, e := range res.Errors {
				s.log.Error("%s: offer %q product %d: %s %s", kind, res.OfferID, res.ProductID, e.Code, e.Message)
			}
		}
	}
	s.log.Log("%s: %s", kind, s.metrics)
}

// PollPending опрашивает все нерешённые задачи журнала по одному разу.
// Неудачный опрос увеличивает счётчик попыток задачи; после watcher.max_attempts
// подряд задача больше не выбирается.
func (s *OzonServer) PollPending(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	tasks, err := s.journal.Pending(ctx, pendingBatchLimit, s.cfg.Watcher.MaxAttempts)
	if err != nil {
		return 0, err
	}
	polled := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			return polled, ctx.Err()
		}
		if _, err := s.Status(ctx, task.TaskID); err != nil {
			s.log.Error("Failed to poll task %d (attempt %d): %s", task.TaskID, task.Attempts+1, err)
			if ctx.Err() == nil {
				if err := s.journal.RecordFailure(ctx, task.TaskID, err.Error()); err != nil {
					s.log.Error("Failed to record poll failure of task %d: %s", task.TaskID, err)
				}
			}
			continue
		}
		polled++
	}
	return polled, nil
}
