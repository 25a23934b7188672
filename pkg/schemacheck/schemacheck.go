// Package schemacheck компилирует встроенные JSON-схемы и переводит ошибки
// santhosh-tekuri/jsonschema в список нарушений по полям.
package schemacheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Failure -- одно нарушение схемы. Field -- путь вида images[0].file_name,
// пустой для корня документа.
type Failure struct {
	Field   string
	Message string
}

// MustCompile читает схему из fsys и компилирует её. Паникует на сломанной схеме.
func MustCompile(fsys fs.FS, path string) *jsonschema.Schema {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		panic(fmt.Sprintf("failed to read schema %s: %v", path, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("failed to add schema resource %s: %v", path, err))
	}
	schema, err := compiler.Compile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema %s: %v", path, err))
	}
	return schema
}

// Normalize прогоняет значение через JSON, чтобы схема видела то же, что уйдёт в сеть:
// типизированные структуры, указатели и срезы становятся map/[]interface{}, числа -- json.Number.
func Normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var out interface{}
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Check проверяет уже нормализованное значение. Ошибки, не относящиеся к схеме, возвращаются как есть.
func Check(schema *jsonschema.Schema, v interface{}) ([]Failure, error) {
	err := schema.Validate(v)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	return Failures(verr), nil
}

var quoted = regexp.MustCompile(`["']([^"']+)["']`)

// Failures собирает листья дерева ошибок, по одному нарушению на поле.
// Ошибка required раскладывается на отдельное нарушение для каждого пропущенного свойства.
func Failures(verr *jsonschema.ValidationError) []Failure {
	var out []Failure
	seen := make(map[string]struct{})
	add := func(field, message string) {
		if _, dup := seen[field]; dup {
			return
		}
		seen[field] = struct{}{}
		out = append(out, Failure{Field: field, Message: message})
	}

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		field := FieldPath(e.InstanceLocation)
		if isRequired(e.KeywordLocation) {
			for _, m := range quoted.FindAllStringSubmatch(e.Message, -1) {
				add(join(field, m[1]), "is required")
			}
			return
		}
		add(field, e.Message)
	}
	walk(verr)
	return out
}

// FieldPath переводит JSON Pointer (/images/0/file_name) в images[0].file_name.
// Ведущий слэш необязателен.
func FieldPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func isRequired(keywordLocation string) bool {
	return keywordLocation == "required" || strings.HasSuffix(keywordLocation, "/required")
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
