package controller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akademikku_backend/internals/helpers/apiclient"
	"akademikku_backend/internals/helpers/xlsx"

	svc "akademikku_backend/internals/features/akademik/peta_blok/service"
)

func newApp(t *testing.T, upstream http.Handler) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	s := svc.New(apiclient.New(srv.URL, 5*time.Second), nil, time.Minute, 2)
	h := New(s)
	app := fiber.New()
	app.Get("/peta-blok", h.Get)
	app.Get("/peta-blok/slots", h.Slots)
	app.Get("/peta-blok/export.xlsx", h.ExportExcel)
	return app
}

func emptyUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mata-kuliah" {
			_, _ = w.Write([]byte(`{"data":[{"kode":"MKB1101","semester":1,"jenis":"Blok","tanggal_mulai":"2025-07-07","tanggal_akhir":"2025-07-08"}]}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
}

func TestGetRejectsBadParity(t *testing.T) {
	app := newApp(t, emptyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/peta-blok?parity=tengah", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetBuildsView(t *testing.T) {
	app := newApp(t, emptyUpstream())
	req := httptest.NewRequest(http.MethodGet, "/peta-blok?parity=ganjil&mode=blok", nil)
	req.Header.Set("Authorization", "Bearer abc")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Columns []string `json:"columns"`
			Days    []any    `json:"days"`
			Slots   []any    `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.Len(t, out.Data.Columns, 4)
	assert.Len(t, out.Data.Days, 2)
	assert.Len(t, out.Data.Slots, 12)
}

func TestGetMapsUpstreamError(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Tidak punya akses"}`))
	}))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/peta-blok?parity=genap", nil), 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestExportExcelAttachment(t *testing.T) {
	app := newApp(t, emptyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/peta-blok/export.xlsx?parity=ganjil", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsx.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "peta-blok-ganjil-semua-")

	data, _ := io.ReadAll(resp.Body)
	rows, err := xlsx.ReadBytes(data, "Peta Blok")
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header saja
}

func TestSlots(t *testing.T) {
	app := newApp(t, emptyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/peta-blok/slots", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
