package csvfeed

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/pkg/business/service"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func cp1251(t *testing.T, s string) io.Reader {
	t.Helper()
	encoded, err := charmap.Windows1251.NewEncoder().String(s)
	require.NoError(t, err)
	return bytes.NewReader([]byte(encoded))
}

func TestFeed_ProductsWindows1251(t *testing.T) {
	csv := "offer_id;name;category_id;price;vat;quantity;vendor_code;images;description;attributes\n" +
		"SKU-1;Кружка керамическая;17036076;499,90;0;3;VC-1;https://cdn/1.jpg, https://cdn/2.jpg;<p>Белая <b>кружка</b></p>;8229:Кружка|85:Без бренда\n" +
		";;;;;;;;;\n" +
		"SKU-2;Тарелка;17036076;250;0.2;;VC-2;;;\n"
	feed := NewFeed(';', Windows1251, service.NewTextService())

	batch, err := feed.Products(cp1251(t, csv))
	require.NoError(t, err)
	require.Len(t, batch, 2)

	first := batch[0]
	assert.Equal(t, "Кружка керамическая", first["name"])
	assert.Equal(t, int64(17036076), first["category_id"])
	assert.Equal(t, "499.90", first["price"])
	assert.Equal(t, int64(3), first["quantity"])
	assert.Equal(t, "Белая кружка", first["description"])
	assert.Equal(t, []models.Image{{FileName: "https://cdn/1.jpg", Default: true}, {FileName: "https://cdn/2.jpg"}}, first["images"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"id": int64(8229), "value": "Кружка"},
		map[string]interface{}{"id": int64(85), "value": "Без бренда"},
	}, first["attributes"])

	second := batch[1]
	assert.Equal(t, "SKU-2", second.OfferID())
	_, hasQuantity := second["quantity"]
	assert.False(t, hasQuantity)
	_, hasImages := second["images"]
	assert.False(t, hasImages)
}

func TestFeed_ProductsBadCell(t *testing.T) {
	feed := NewFeed(';', UTF8, service.NewTextService())
	_, err := feed.Products(strings.NewReader("offer_id;price\nA;дорого\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "price"`)
}

func TestFeed_PricesWithoutHeader(t *testing.T) {
	feed := NewFeed(',', UTF8, service.NewTextService())
	prices, err := feed.Prices(strings.NewReader("120000,offer_1,79990,89990,69990,0.1\n,offer_2,100,,,\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.PriceUpdate{
		{ProductID: 120000, OfferID: "offer_1", Price: "79990", OldPrice: "89990", PremiumPrice: "69990", Vat: "0.1"},
		{OfferID: "offer_2", Price: "100"},
	}, prices)
}

func TestFeed_Stocks(t *testing.T) {
	feed := NewFeed(';', UTF8, service.NewTextService())

	stocks, err := feed.Stocks(strings.NewReader("product_id;stock\n507735;20\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.StockUpdate{{ProductID: 507735, Stock: 20}}, stocks)

	_, err = feed.Stocks(strings.NewReader("offer_id;stock\nA;\n"))
	assert.Error(t, err)
}

func TestProcessor_Empty(t *testing.T) {
	_, err := NewProcessor(StockColumns, nil).SetEncoding(UTF8).ProcessCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSource_FileAndHTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte("product_id;stock\n1;2\n"), 0o600))

	src := NewSource(nil)
	rc, err := src.Fetch(context.Background(), path)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "product_id;stock\n1;2\n", string(body))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("offer_id;stock\nA;1\n"))
	}))
	defer srv.Close()

	rc, err = src.Fetch(context.Background(), srv.URL+"/feed.csv")
	require.NoError(t, err)
	body, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "offer_id;stock\nA;1\n", string(body))

	_, err = src.Fetch(context.Background(), srv.URL+"/missing.csv")
	assert.Error(t, err)
}

func TestConverters(t *testing.T) {
	v, err := DecimalConverter(" 12,5 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	v, err = IntConverter("")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = IntConverter("1.5")
	assert.Error(t, err)

	v, err = ListConverter(" , ")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = AttributesConverter("8229")
	assert.Error(t, err)
}
