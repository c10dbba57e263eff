// Package validator envuelve go-playground/validator para validar los DTOs
// de entrada según sus tags `validate`.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describe un campo que no pasó validación.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: falla la regla %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: falla la regla %s", e.Field, e.Tag)
}

// ValidateStruct valida los tags del struct y devuelve los campos fallidos.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Tag: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: jsonFieldName(fe.StructNamespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// jsonFieldName baja el namespace Struct.Campo a snake del último segmento.
func jsonFieldName(ns string) string {
	if i := strings.LastIndex(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
