package request

import (
	"net/http"
	"ozonseller_api/internal/ozon/business/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{ClientID: "836", APIKey: "0296d4f2-70a1-4c09-b507-904fd05567b9", BaseURL: "https://api-seller.ozon.ru/"}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(testCreds)
	require.NoError(t, err)
	return b
}

func TestNewBuilder_IncompleteCredentials(t *testing.T) {
	_, err := NewBuilder(Credentials{ClientID: "836"})
	require.ErrorIs(t, err, ErrIncompleteCredentials)
	assert.Contains(t, err.Error(), "api key")
	assert.Contains(t, err.Error(), "api url")

	_, err = NewBuilder(Credentials{ClientID: "1", APIKey: "k", BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestBuild_Headers(t *testing.T) {
	req, err := newBuilder(t).Build(OpInfo, map[string]interface{}{"product_id": 1})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://api-seller.ozon.ru/v1/product/info", req.URL)
	assert.Equal(t, "836", req.Header.Get("Client-Id"))
	assert.Equal(t, testCreds.APIKey, req.Header.Get("Api-Key"))
	assert.Equal(t, "api-seller.ozon.ru", req.Header.Get("Host"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"product_id":1}`, string(req.Body))
}

func TestBuild_Shapes(t *testing.T) {
	b := newBuilder(t)
	batch := models.ImportBatch{{"offer_id": "A"}}

	cases := []struct {
		name    string
		op      Operation
		payload interface{}
		path    string
		body    string
	}{
		{"import items envelope", OpImport, batch, "/v1/product/import", `{"items":[{"offer_id":"A"}]}`},
		{"empty import keeps empty list", OpImport, models.ImportBatch(nil), "/v1/product/import", `{"items":[]}`},
		{"import by sku", OpImportBySku, []models.ProductPayload{{"sku": 1}}, "/v1/product/import-by-sku", `{"items":[{"sku":1}]}`},
		{"classify products envelope", OpClassify, batch, "/v1/product/classify", `{"products":[{"offer_id":"A"}]}`},
		{"prices bare array", OpImportPrices, []models.PriceUpdate{{ProductID: 1, Price: "10"}}, "/v1/product/import/prices", `[{"product_id":1,"price":"10"}]`},
		{"stocks bare array", OpImportStocks, []models.StockUpdate{{OfferID: "A", Stock: 0}}, "/v1/product/import/stocks", `[{"offer_id":"A","stock":0}]`},
		{"object without payload", OpInfoStocks, nil, "/v1/product/info/stocks", `{}`},
		{"task info", OpImportInfo, map[string]int64{"task_id": 42}, "/v1/product/import/info", `{"task_id":42}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := b.Build(tc.op, tc.payload)
			require.NoError(t, err)
			assert.Equal(t, "https://api-seller.ozon.ru"+tc.path, req.URL)
			assert.JSONEq(t, tc.body, string(req.Body))
		})
	}
}

func TestBuild_ArrayShapeRejectsObject(t *testing.T) {
	_, err := newBuilder(t).Build(OpImportStocks, map[string]int{"stock": 1})
	assert.Error(t, err)
}

func TestBuild_UnknownOperation(t *testing.T) {
	_, err := newBuilder(t).Build(Operation("archive"), nil)
	assert.Error(t, err)
}

func TestEveryOperationRouted(t *testing.T) {
	assert.Len(t, Operations(), 15)
	for _, op := range Operations() {
		_, ok := op.Shape()
		assert.True(t, ok, op)
	}
}

func TestCredentials_StringHidesKey(t *testing.T) {
	assert.NotContains(t, testCreds.String(), testCreds.APIKey)
}
