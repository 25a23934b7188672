package validate

import (
	"fmt"
	"ozonseller_api/internal/ozon/business/apierr"
	"ozonseller_api/internal/ozon/business/models"
	"ozonseller_api/pkg/schemacheck"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type Mode int

const (
	// ModeImport -- создание товара, все обязательные поля.
	ModeImport Mode = iota
	// ModeUpdate -- частичное обновление, нужен только product_id.
	ModeUpdate
	// ModeImportBySku -- создание по SKU существующего товара.
	ModeImportBySku
)

// Result -- итог проверки: пустой список нарушений значит Valid.
type Result struct {
	Violations []apierr.Violation
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

func (r *Result) add(field, format string, args ...interface{}) {
	r.Violations = append(r.Violations, apierr.Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err возвращает ValidationFailed со всеми нарушениями или nil.
func (r Result) Err(message string) error {
	if r.Valid() {
		return nil
	}
	return apierr.ValidationFailed(message, r.Violations, nil)
}

// Validator проверяет нагрузку по встроенным JSON-схемам. Схемы компилируются
// один раз при загрузке пакета, так что Validator безопасен для конкурентного использования.
// Картинки проверяются только по наличию и типам полей, количество default=true -- забота сервера.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateProduct(payload models.ProductPayload, mode Mode) Result {
	var res Result
	v.validateProduct(&res, "", payload, mode)
	return res
}

// ValidateBatch проверяет каждый товар пакета; любой невалидный товар
// проваливает весь вызов до того, как будет собран запрос.
func (v *Validator) ValidateBatch(batch models.ImportBatch, mode Mode) error {
	if len(batch) == 0 {
		return apierr.ValidationFailed("import batch is empty",
			[]apierr.Violation{{Field: "items", Message: "at least one product is required"}}, nil)
	}
	var res Result
	for i, payload := range batch {
		v.validateProduct(&res, fmt.Sprintf("items[%d].", i), payload, mode)
	}
	return res.Err("product payload is invalid")
}

func (v *Validator) ValidatePrices(prices []models.PriceUpdate) error {
	if len(prices) == 0 {
		return apierr.ValidationFailed("price batch is empty",
			[]apierr.Violation{{Field: "prices", Message: "at least one price is required"}}, nil)
	}
	var res Result
	for i, p := range prices {
		prefix := fmt.Sprintf("prices[%d].", i)
		start := len(res.Violations)
		checkIdentity(&res, prefix, p.Ref())
		checkSchema(&res, prefix, priceSchema, p)
		sortViolations(res.Violations[start:])
	}
	return res.Err("price batch is invalid")
}

func (v *Validator) ValidateStocks(stocks []models.StockUpdate) error {
	if len(stocks) == 0 {
		return apierr.ValidationFailed("stock batch is empty",
			[]apierr.Violation{{Field: "stocks", Message: "at least one stock is required"}}, nil)
	}
	var res Result
	for i, s := range stocks {
		prefix := fmt.Sprintf("stocks[%d].", i)
		start := len(res.Violations)
		checkIdentity(&res, prefix, s.Ref())
		checkSchema(&res, prefix, stockSchema, s)
		sortViolations(res.Violations[start:])
	}
	return res.Err("stock batch is invalid")
}

func (v *Validator) validateProduct(res *Result, prefix string, payload models.ProductPayload, mode Mode) {
	if len(payload) == 0 {
		res.add(rootField(prefix, "product"), "product payload is empty")
		return
	}
	schema, ok := productSchemas[mode]
	if !ok {
		res.add(rootField(prefix, "product"), "unknown validation mode %d", mode)
		return
	}
	start := len(res.Violations)
	checkSchema(res, prefix, schema, payload)
	sortViolations(res.Violations[start:])
}

// checkSchema прогоняет значение через JSON и проверяет по схеме.
// Пути нарушений получают prefix вида items[3].
func checkSchema(res *Result, prefix string, schema *jsonschema.Schema, value interface{}) {
	doc, err := schemacheck.Normalize(value)
	if err != nil {
		res.add(rootField(prefix, "product"), "cannot be encoded as JSON: %s", err)
		return
	}
	failures, err := schemacheck.Check(schema, doc)
	if err != nil {
		res.add(rootField(prefix, "product"), "%s", err)
		return
	}
	for _, f := range failures {
		field := f.Field
		if field == "" {
			field = rootField(prefix, "product")
		} else {
			field = prefix + field
		}
		res.add(field, "%s", f.Message)
	}
}

func checkIdentity(res *Result, prefix string, ref models.ItemRef) {
	if ref.ProductID == 0 && strings.TrimSpace(ref.OfferID) == "" {
		res.add(prefix+"product_id", "product_id or offer_id is required")
	}
}

// rootField -- имя для нарушения, относящегося ко всему объекту.
func rootField(prefix, fallback string) string {
	if field := strings.TrimSuffix(prefix, "."); field != "" {
		return field
	}
	return fallback
}

// sortViolations делает порядок нарушений стабильным: обход свойств схемы идёт по map.
func sortViolations(v []apierr.Violation) {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].Field < v[j].Field
	})
}
