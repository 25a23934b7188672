package models

const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNotFoundError = "NOT_FOUND_ERROR"
	ErrCodeNotUpdated    = "NOT_UPDATED"
)

type BatchItemResult struct {
	ProductID int64       `json:"product_id"`
	OfferID   string      `json:"offer_id"`
	Updated   bool        `json:"updated"`
	Errors    []ItemError `json:"errors"`
}

type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IsNotFound -- оба написания кода означают "товар не найден".
func (e ItemError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeNotFoundError
}

func (r BatchItemResult) NotFound() bool {
	for _, e := range r.Errors {
		if e.IsNotFound() {
			return true
		}
	}
	return false
}

// ItemRef -- идентичность отправленной позиции, по ней сверяется ответ.
type ItemRef struct {
	ProductID int64  `json:"product_id,omitempty"`
	OfferID   string `json:"offer_id,omitempty"`
}

func (r ItemRef) Matches(result BatchItemResult) bool {
	if r.ProductID != 0 && r.ProductID == result.ProductID {
		return true
	}
	return r.OfferID != "" && r.OfferID == result.OfferID
}

type PriceUpdate struct {
	ProductID    int64  `json:"product_id,omitempty"`
	OfferID      string `json:"offer_id,omitempty"`
	Price        string `json:"price"`
	OldPrice     string `json:"old_price,omitempty"`
	PremiumPrice string `json:"premium_price,omitempty"`
	Vat          string `json:"vat,omitempty"`
}

func (p PriceUpdate) Ref() ItemRef {
	return ItemRef{ProductID: p.ProductID, OfferID: p.OfferID}
}

type StockUpdate struct {
	ProductID int64  `json:"product_id,omitempty"`
	OfferID   string `json:"offer_id,omitempty"`
	Stock     int64  `json:"stock"`
}

func (s StockUpdate) Ref() ItemRef {
	return ItemRef{ProductID: s.ProductID, OfferID: s.OfferID}
}
