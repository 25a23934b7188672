package csvfeed

import (
	"fmt"
	"io"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/pkg/business/service"
)

const descriptionLimit = 4000

var (
	ProductColumns = []string{
		"offer_id", "name", "category_id", "price", "old_price", "premium_price", "vat",
		"quantity", "vendor", "vendor_code", "barcode", "description",
		"height", "depth", "width", "dimension_unit", "weight", "weight_unit",
		"images", "attributes",
	}
	PriceColumns = []string{"product_id", "offer_id", "price", "old_price", "premium_price", "vat"}
	StockColumns = []string{"product_id", "offer_id", "stock"}

	productConverters = map[string]ColumnConverter{
		"category_id":   IntConverter,
		"price":         DecimalConverter,
		"old_price":     DecimalConverter,
		"premium_price": DecimalConverter,
		"vat":           DecimalConverter,
		"quantity":      IntConverter,
		"height":        DecimalConverter,
		"depth":         DecimalConverter,
		"width":         DecimalConverter,
		"weight":        DecimalConverter,
		"images":        ListConverter,
		"attributes":    AttributesConverter,
	}
	priceConverters = map[string]ColumnConverter{
		"product_id":    IntConverter,
		"price":         DecimalConverter,
		"old_price":     DecimalConverter,
		"premium_price": DecimalConverter,
		"vat":           DecimalConverter,
	}
	stockConverters = map[string]ColumnConverter{
		"product_id": IntConverter,
		"stock":      IntConverter,
	}
)

// Feed раскладывает CSV поставщика в пакеты для Ozon.
type Feed struct {
	separator rune
	encoding  Encoding
	text      *service.TextService
}

func NewFeed(separator rune, encoding Encoding, text *service.TextService) *Feed {
	return &Feed{separator: separator, encoding: encoding, text: text}
}

func (f *Feed) processor(columns []string, converters map[string]ColumnConverter) *Processor {
	return NewProcessor(columns, converters).SetSeparator(f.separator).SetEncoding(f.encoding)
}

// Products -- первая картинка в списке становится основной.
func (f *Feed) Products(r io.Reader) (models.ImportBatch, error) {
	rows, err := f.processor(ProductColumns, productConverters).ProcessCSV(r)
	if err != nil {
		return nil, err
	}
	batch := make(models.ImportBatch, 0, len(rows))
	for _, row := range rows {
		payload := models.ProductPayload(row)
		if urls, ok := row["images"].([]string); ok {
			images := make([]models.Image, len(urls))
			for i, url := range urls {
				images[i] = models.Image{FileName: url, Default: i == 0}
			}
			payload["images"] = images
		}
		if desc, ok := row["description"].(string); ok {
			payload["description"] = f.text.ClearAndReduce(desc, descriptionLimit)
		}
		batch = append(batch, payload)
	}
	return batch, nil
}

func (f *Feed) Prices(r io.Reader) ([]models.PriceUpdate, error) {
	rows, err := f.processor(PriceColumns, priceConverters).ProcessCSV(r)
	if err != nil {
		return nil, err
	}
	prices := make([]models.PriceUpdate, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, models.PriceUpdate{
			ProductID:    int64Of(row, "product_id"),
			OfferID:      stringOf(row, "offer_id"),
			Price:        stringOf(row, "price"),
			OldPrice:     stringOf(row, "old_price"),
			PremiumPrice: stringOf(row, "premium_price"),
			Vat:          stringOf(row, "vat"),
		})
	}
	return prices, nil
}

func (f *Feed) Stocks(r io.Reader) ([]models.StockUpdate, error) {
	rows, err := f.processor(StockColumns, stockConverters).ProcessCSV(r)
	if err != nil {
		return nil, err
	}
	stocks := make([]models.StockUpdate, 0, len(rows))
	for i, row := range rows {
		if _, ok := row["stock"]; !ok {
			return nil, fmt.Errorf("row %d: stock is empty", i+1)
		}
		stocks = append(stocks, models.StockUpdate{
			ProductID: int64Of(row, "product_id"),
			OfferID:   stringOf(row, "offer_id"),
			Stock:     int64Of(row, "stock"),
		})
	}
	return stocks, nil
}

func stringOf(row Row, key string) string {
	s, _ := row[key].(string)
	return s
}

func int64Of(row Row, key string) int64 {
	n, _ := row[key].(int64)
	return n
}
