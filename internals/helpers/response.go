package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator bersama untuk semua DTO request; nama field diambil dari tag json.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError: error validator.v10 → 422 dengan peta field → pesan.
// Error lain (mis. body tidak bisa di-parse) → 400.
func ValidationError(c *fiber.Ctx, err error) error {
	fields := ValidationFields(err)
	if fields == nil {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	return JsonValidationError(c, fields)
}

// ValidationFields mengubah validator.ValidationErrors ke map[field][]pesan (nil jika bukan).
func ValidationFields(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := toSnake(fe.Field())
		out[name] = append(out[name], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "min":
		return "minimal " + fe.Param()
	case "max":
		return "maksimal " + fe.Param()
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "gt", "gte":
		return "harus lebih besar dari " + fe.Param()
	default:
		return fe.Tag()
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
