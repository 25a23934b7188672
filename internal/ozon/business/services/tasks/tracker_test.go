package tasks

import (
	"context"
	"net/http"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/internal/ozon/business/services/request"
	"ozonseller_api/internal/ozon/business/services/validate"
	"ozonseller_api/pkg/logger"
	"ozonseller_api/pkg/transport/transporttest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, responses ...transporttest.Response) (*Tracker, *transporttest.Recorder) {
	t.Helper()
	builder, err := request.NewBuilder(request.Credentials{ClientID: "836", APIKey: "key", BaseURL: "https://api-seller.ozon.ru"})
	require.NoError(t, err)
	rec := transporttest.NewRecorder(responses...)
	exec := request.NewExecutor(builder, rec, logger.NewNop())
	return NewTracker(exec, validate.NewValidator(), logger.NewNop()), rec
}

func product(offerID string) models.ProductPayload {
	return models.ProductPayload{
		"category_id": 17036076,
		"offer_id":    offerID,
		"name":        "Кружка",
		"price":       "499",
		"vat":         "0",
		"quantity":    "1",
		"vendor_code": "VC",
		"images":      []models.Image{{FileName: "https://cdn.example/1.jpg", Default: true}},
	}
}

func TestTracker_SubmitAndPoll(t *testing.T) {
	tracker, rec := newTracker(t,
		transporttest.Response{Status: http.StatusOK, Body: `{"result":{"task_id":172549793}}`},
		transporttest.Response{Status: http.StatusOK, Body: `{"result":{"items":[{"offer_id":"SKU-1","product_id":144295,"status":"imported"}],"total":1}}`},
	)
	ctx := context.Background()

	id, err := tracker.Submit(ctx, models.ImportBatch{product("SKU-1")}, true)
	require.NoError(t, err)
	assert.Equal(t, models.TaskID(172549793), id)

	status, err := tracker.Poll(ctx, id)
	require.NoError(t, err)
	require.Len(t, status.Items, 1)
	assert.Equal(t, models.TaskItem{OfferID: "SKU-1", ProductID: 144295, Status: "imported"}, status.Items[0])
	assert.Equal(t, models.TaskResolved, status.State())

	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "https://api-seller.ozon.ru/v1/product/import", calls[0].URL)
	assert.JSONEq(t, `{"task_id":172549793}`, string(calls[1].Body))
}

func TestTracker_PollItemsMatchBatchSize(t *testing.T) {
	tracker, _ := newTracker(t,
		transporttest.Response{Status: http.StatusOK, Body: `{"result":{"task_id":5}}`},
		transporttest.Response{Status: http.StatusOK, Body: `{"result":{"items":[
			{"offer_id":"A","product_id":1,"status":"imported"},
			{"offer_id":"B","product_id":0,"status":"failed"},
			{"offer_id":"C","product_id":3,"status":"pending"}],"total":3}}`},
	)
	batch := models.ImportBatch{product("A"), product("B"), product("C")}

	id, err := tracker.Submit(context.Background(), batch, true)
	require.NoError(t, err)
	status, err := tracker.Poll(context.Background(), id)
	require.NoError(t, err)

	assert.Len(t, status.Items, len(batch))
	assert.Equal(t, "failed", status.Items[1].Status)
	assert.Equal(t, models.TaskPending, status.State())
}

func TestTracker_InvalidBatchNeverSent(t *testing.T) {
	tracker, rec := newTracker(t)
	bad := product("A")
	delete(bad, "name")

	id, err := tracker.Submit(context.Background(), models.ImportBatch{product("OK"), bad}, true)
	require.Error(t, err)
	assert.Zero(t, id)
	assert.Equal(t, apierr.KindValidationFailed, apierr.KindOf(err))
	assert.Contains(t, err.Error(), "items[1].name")
	assert.Zero(t, rec.Count())
}

func TestTracker_EmptyBatchWithoutValidation(t *testing.T) {
	tracker, rec := newTracker(t, transporttest.Response{
		Status: http.StatusBadRequest,
		Body:   `{"error":{"code":"BAD_REQUEST","message":"Invalid JSON payload","data":[]}}`,
	})

	id, err := tracker.Submit(context.Background(), nil, false)
	require.Error(t, err)
	assert.Zero(t, id)

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.KindBadRequest, apiErr.Kind)
	assert.Equal(t, "Invalid JSON payload", apiErr.Message)
	assert.Empty(t, apiErr.Data)
	assert.JSONEq(t, `{"items":[]}`, string(rec.Last().Body))
}

func TestTracker_NoTaskIDOnFailure(t *testing.T) {
	cases := []struct {
		name string
		resp transporttest.Response
	}{
		{"server rejects", transporttest.Response{Status: http.StatusForbidden, Body: `{"error":{"code":"ACCESS_DENIED","message":"Access denied"}}`}},
		{"no task id in body", transporttest.Response{Status: http.StatusOK, Body: `{"result":{}}`}},
		{"non integer task id", transporttest.Response{Status: http.StatusOK, Body: `{"result":{"task_id":1.5}}`}},
		{"broken body", transporttest.Response{Status: http.StatusOK, Body: `{"result":`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker, _ := newTracker(t, tc.resp)
			id, err := tracker.Submit(context.Background(), models.ImportBatch{product("A")}, false)
			require.Error(t, err)
			assert.Zero(t, id)
		})
	}
}

func TestTracker_PollIsIdempotent(t *testing.T) {
	resolved := `{"result":{"items":[{"offer_id":"A","product_id":1,"status":"imported"}],"total":1}}`
	tracker, rec := newTracker(t, transporttest.Response{Status: http.StatusOK, Body: resolved})

	first, err := tracker.Poll(context.Background(), 42)
	require.NoError(t, err)
	second, err := tracker.Poll(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, rec.Count(), "each poll is one round trip")
}

func TestTracker_PollRejectsBadID(t *testing.T) {
	tracker, rec := newTracker(t)
	_, err := tracker.Poll(context.Background(), 0)
	assert.Equal(t, apierr.KindValidationFailed, apierr.KindOf(err))
	assert.Zero(t, rec.Count())
}

func TestTracker_SubmitBySku(t *testing.T) {
	tracker, rec := newTracker(t, transporttest.Response{Status: http.StatusOK, Body: `{"result":{"task_id":99,"unmatched_sku_list":[]}}`})
	items := []models.SkuImportItem{{Sku: 149521374, Name: "Кружка", OfferID: "SKU-2", Price: "499", Vat: "0"}}

	id, err := tracker.SubmitBySku(context.Background(), items, true)
	require.NoError(t, err)
	assert.Equal(t, models.TaskID(99), id)
	assert.Equal(t, "https://api-seller.ozon.ru/v1/product/import-by-sku", rec.Last().URL)
	assert.JSONEq(t, `{"items":[{"sku":149521374,"name":"Кружка","offer_id":"SKU-2","price":"499","vat":"0"}]}`, string(rec.Last().Body))

	items[0].Price = ""
	_, err = tracker.SubmitBySku(context.Background(), items, true)
	assert.Equal(t, apierr.KindValidationFailed, apierr.KindOf(err))
	assert.Equal(t, 1, rec.Count())
}
