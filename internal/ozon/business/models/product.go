package models

// ProductPayload -- товар в том виде, в котором он уходит в API: имя поля -> значение.
// Значения не типизированы намеренно: валидатор проверяет типы до отправки.
type ProductPayload map[string]interface{}

// ImportBatch -- упорядоченный набор товаров, отправляемый одним запросом.
type ImportBatch []ProductPayload

type Image struct {
	FileName string `json:"file_name"`
	Default  bool   `json:"default"`
}

type Attribute struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// OfferID возвращает артикул продавца, если он задан строкой.
func (p ProductPayload) OfferID() string {
	if v, ok := p["offer_id"].(string); ok {
		return v
	}
	return ""
}

// SkuImportItem -- создание товара по существующему SKU Ozon.
type SkuImportItem struct {
	Sku          int64  `json:"sku"`
	Name         string `json:"name"`
	OfferID      string `json:"offer_id"`
	Price        string `json:"price"`
	OldPrice     string `json:"old_price,omitempty"`
	PremiumPrice string `json:"premium_price,omitempty"`
	Vat          string `json:"vat"`
}

func (i SkuImportItem) Payload() ProductPayload {
	payload := ProductPayload{
		"sku":      i.Sku,
		"name":     i.Name,
		"offer_id": i.OfferID,
		"price":    i.Price,
		"vat":      i.Vat,
	}
	if i.OldPrice != "" {
		payload["old_price"] = i.OldPrice
	}
	if i.PremiumPrice != "" {
		payload["premium_price"] = i.PremiumPrice
	}
	return payload
}
