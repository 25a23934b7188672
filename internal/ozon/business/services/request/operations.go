package request

import (
	"net/http"
	"ozonseller_api/internal/ozon/business/services/classify"
)

type Operation string

const (
	OpClassify     Operation = "classify"
	OpImport       Operation = "import"
	OpImportBySku  Operation = "importBySku"
	OpImportInfo   Operation = "importInfo"
	OpInfo         Operation = "info"
	OpInfoStocks   Operation = "infoStocks"
	OpInfoPrices   Operation = "infoPrices"
	OpList         Operation = "list"
	OpPrice        Operation = "price"
	OpUpdate       Operation = "update"
	OpActivate     Operation = "activate"
	OpDeactivate   Operation = "deactivate"
	OpDelete       Operation = "delete"
	OpImportPrices Operation = "importPrices"
	OpImportStocks Operation = "importStocks"
)

// Shape -- форма конверта, в который заворачивается полезная нагрузка.
type Shape int

const (
	// ShapeObject -- нагрузка уходит как есть.
	ShapeObject Shape = iota
	// ShapeItems -- {"items": [...]}.
	ShapeItems
	// ShapeProducts -- {"products": [...]}.
	ShapeProducts
	// ShapeArray -- голый массив без конверта.
	ShapeArray
)

type route struct {
	method string
	path   string
	shape  Shape
	scope  classify.Scope
}

const (
	many   = classify.ScopeMany
	single = classify.ScopeSingle
)

var routes = map[Operation]route{
	OpClassify:     {http.MethodPost, "/v1/product/classify", ShapeProducts, many},
	OpImport:       {http.MethodPost, "/v1/product/import", ShapeItems, many},
	OpImportBySku:  {http.MethodPost, "/v1/product/import-by-sku", ShapeItems, many},
	OpImportInfo:   {http.MethodPost, "/v1/product/import/info", ShapeObject, single},
	OpInfo:         {http.MethodPost, "/v1/product/info", ShapeObject, single},
	OpInfoStocks:   {http.MethodPost, "/v1/product/info/stocks", ShapeObject, many},
	OpInfoPrices:   {http.MethodPost, "/v1/product/info/prices", ShapeObject, many},
	OpList:         {http.MethodPost, "/v1/product/list", ShapeObject, many},
	OpPrice:        {http.MethodPost, "/v1/product/info/price", ShapeObject, many},
	OpUpdate:       {http.MethodPost, "/v1/product/update", ShapeObject, single},
	OpActivate:     {http.MethodPost, "/v1/product/activate", ShapeObject, single},
	OpDeactivate:   {http.MethodPost, "/v1/product/deactivate", ShapeObject, single},
	OpDelete:       {http.MethodPost, "/v1/product/delete", ShapeObject, single},
	OpImportPrices: {http.MethodPost, "/v1/product/import/prices", ShapeArray, many},
	OpImportStocks: {http.MethodPost, "/v1/product/import/stocks", ShapeArray, many},
}

// Operations возвращает все известные операции, в порядке объявления не гарантировано.
func Operations() []Operation {
	ops := make([]Operation, 0, len(routes))
	for op := range routes {
		ops = append(ops, op)
	}
	return ops
}

func (o Operation) Shape() (Shape, bool) {
	r, ok := routes[o]
	return r.shape, ok
}

// Scope -- на один ли товар (задачу) направлен вызов. Для неизвестной операции ScopeMany.
func (o Operation) Scope() classify.Scope {
	return routes[o].scope
}
