package request

import (
	"context"
	"encoding/json"
	"ozonseller_api/internal/ozon/business/services/classify"
	"ozonseller_api/pkg/logger"
	"ozonseller_api/pkg/transport"
)

// Executor проводит одну операцию через Builder -> Transport -> Classifier.
// Ничего не повторяет и не кэширует.
type Executor struct {
	builder    *Builder
	transport  transport.Transport
	classifier *classify.Classifier
	log        logger.Logger
}

func NewExecutor(builder *Builder, t transport.Transport, log logger.Logger) *Executor {
	return &Executor{
		builder:    builder,
		transport:  t,
		classifier: classify.NewClassifier(),
		log:        log,
	}
}

// Execute возвращает тело успешного ответа (без конверта result) или *apierr.Error.
func (e *Executor) Execute(ctx context.Context, op Operation, payload interface{}) (json.RawMessage, error) {
	req, err := e.builder.Build(op, payload)
	if err != nil {
		return nil, err
	}

	status, body, err := e.transport.Send(ctx, req.Method, req.URL, req.Header, req.Body)
	var out classify.Outcome
	if err != nil {
		out = e.classifier.ClassifyTransportError(err)
	} else {
		out = e.classifier.Classify(op.Scope(), status, body)
	}

	if !out.OK() {
		e.log.Error("%s failed: %s", op, out.Err)
		return nil, out.Failure()
	}
	return out.Body, nil
}
