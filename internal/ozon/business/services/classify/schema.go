package classify

import (
	"embed"
	"encoding/json"
	"ozonseller_api/pkg/schemacheck"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var validationSchema = schemacheck.MustCompile(schemaFS, "schemas/validation_error.json")

// isValidationShape -- тело ошибки содержит список нарушений по полям.
func isValidationShape(body []byte) bool {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return false
	}
	return validationSchema.Validate(v) == nil
}
