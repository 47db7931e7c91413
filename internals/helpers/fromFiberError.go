package helper

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/helpers/apiclient"
)

// FromFiberError mengubah error service (biasanya *fiber.Error atau *apiclient.APIError)
// menjadi response JSON konsisten via JsonError.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var ae *apiclient.APIError
	if errors.As(err, &ae) && ae.Status == fiber.StatusUnprocessableEntity && len(ae.Fields) > 0 {
		return JsonValidationError(c, ae.Fields)
	}
	status, msg := FormatAPIError(err)
	return JsonError(c, status, msg)
}

// FormatAPIError mengubah error apa pun jadi (status HTTP, pesan untuk user).
// Status 4xx upstream diteruskan apa adanya; 5xx/transport → 502; timeout → 504.
func FormatAPIError(err error) (int, string) {
	if err == nil {
		return fiber.StatusOK, ""
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	var ae *apiclient.APIError
	if errors.As(err, &ae) {
		switch {
		case ae.Timeout:
			return fiber.StatusGatewayTimeout, "Server akademik tidak merespons (timeout)"
		case ae.Status >= 400 && ae.Status < 500:
			msg := ae.Message
			if msg == "" {
				msg = defaultMessageFor(ae.Status)
			}
			return ae.Status, msg
		case ae.Status == 0:
			if ae.Message != "" {
				return fiber.StatusBadGateway, "Gagal menghubungi server akademik: " + ae.Message
			}
			return fiber.StatusBadGateway, "Gagal menghubungi server akademik"
		default:
			if ae.Message != "" {
				return fiber.StatusBadGateway, "Server akademik error: " + ae.Message
			}
			return fiber.StatusBadGateway, "Server akademik error"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, "Request timeout"
	}
	return fiber.StatusInternalServerError, err.Error()
}

func defaultMessageFor(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "Sesi login tidak valid"
	case fiber.StatusForbidden:
		return "Akses ditolak"
	case fiber.StatusNotFound:
		return "Data tidak ditemukan"
	case fiber.StatusConflict:
		return "Data bentrok dengan data lain"
	case fiber.StatusUnprocessableEntity:
		return "Data tidak valid"
	default:
		return "Request ditolak server akademik"
	}
}
