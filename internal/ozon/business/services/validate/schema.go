package validate

import (
	"embed"
	"ozonseller_api/pkg/schemacheck"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	productSchemas = map[Mode]*jsonschema.Schema{
		ModeImport:      schemacheck.MustCompile(schemaFS, "schemas/product_import.json"),
		ModeUpdate:      schemacheck.MustCompile(schemaFS, "schemas/product_update.json"),
		ModeImportBySku: schemacheck.MustCompile(schemaFS, "schemas/product_by_sku.json"),
	}
	priceSchema = schemacheck.MustCompile(schemaFS, "schemas/price_update.json")
	stockSchema = schemacheck.MustCompile(schemaFS, "schemas/stock_update.json")
)
