// file: internals/helpers/json_response.go
package helper

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error helpers (standard shape)
=================================*/

type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	Details   any                 `json:"details,omitempty"`
}

func statusToErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusBadGateway:
		return "UPSTREAM_ERROR"
	case fiber.StatusGatewayTimeout:
		return "UPSTREAM_TIMEOUT"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}

// JsonError: error generic (bukan validasi)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if status < 500 {
		message = orDefault(message, "request gagal diproses")
	} else {
		message = orDefault(message, fiber.ErrInternalServerError.Message)
	}
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonErrorWithDetails: error + payload tambahan (mis. daftar issue import)
func JsonErrorWithDetails(c *fiber.Ctx, status int, message string, details any) error {
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(status),
		Details:   details,
	})
}

// JsonValidationError: khusus error validasi (422)
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success:   false,
		Message:   "validation failed",
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fieldErrors,
	})
}

/* ===============================
   JSON responses (standard success)
=================================*/

func lenOf(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}

func orDefault(message, def string) string {
	if strings.TrimSpace(message) == "" {
		return def
	}
	return message
}

func jsonData(c *fiber.Ctx, status int, success bool, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// JsonList: list dengan pagination
func JsonList(c *fiber.Ctx, message string, data any, pagination *Pagination) error {
	body := fiber.Map{
		"success": true,
		"message": orDefault(message, "ok"),
		"data":    data,
	}
	if pagination != nil {
		p := *pagination
		if p.Count == 0 {
			p.Count = lenOf(data)
		}
		if len(p.PerPageOptions) == 0 {
			p.PerPageOptions = append([]int(nil), defaultPerPageOptions...)
		}
		body["pagination"] = p
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return jsonData(c, fiber.StatusOK, true, orDefault(message, "ok"), data)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return jsonData(c, fiber.StatusCreated, true, orDefault(message, "created"), data)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return jsonData(c, fiber.StatusOK, true, orDefault(message, "updated"), data)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return jsonData(c, fiber.StatusOK, true, orDefault(message, "deleted"), data)
}

// JsonPartial: batch sebagian gagal (207), data berisi laporan per item.
func JsonPartial(c *fiber.Ctx, message string, data any) error {
	return jsonData(c, fiber.StatusMultiStatus, false, message, data)
}
