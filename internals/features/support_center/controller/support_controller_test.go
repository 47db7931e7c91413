package controller

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akademikku_backend/internals/helpers/apiclient"
	helperAuth "akademikku_backend/internals/helpers/auth"

	svc "akademikku_backend/internals/features/support_center/service"
)

func upstream(images *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/support-center/tickets/my" || r.URL.Path == "/support-center/tickets/all":
			_, _ = w.Write([]byte(`{"data":[
				{"id":1,"title":"Satu","status":"Open"},
				{"id":2,"title":"Dua","status":"Closed"},
				{"id":3,"title":"Tiga","status":"Open"}]}`))
		case r.URL.Path == "/support-center/metrics":
			_, _ = w.Write([]byte(`{"data":{"open":2}}`))
		case r.URL.Path == "/support-center/bug-reports":
			if err := r.ParseMultipartForm(32 << 20); err == nil && images != nil {
				*images = len(r.MultipartForm.File["images[]"])
			}
			_, _ = w.Write([]byte(`{"data":{"id":8,"title":"Bug","status":"Open"}}`))
		case r.URL.Path == "/support-center/contacts":
			_, _ = w.Write([]byte(`{"data":{"id":9,"subject":"Halo"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"tidak ada"}`))
		}
	})
}

func newApp(t *testing.T, images *int, claims *helperAuth.Claims) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstream(images))
	t.Cleanup(srv.Close)

	h := New(svc.New(apiclient.New(srv.URL, 5*time.Second)))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals(helperAuth.LocClaims, *claims)
		}
		return c.Next()
	})
	g := app.Group("/support-center")
	g.Get("/view/:tab", h.View)
	g.Get("/tickets/my", h.MyTickets)
	g.Get("/tickets/all", h.AllTickets)
	g.Get("/metrics", h.Metrics)
	g.Post("/bug-reports", h.SubmitBugReport)
	g.Post("/contacts", h.SubmitContact)
	g.Patch("/tickets/:id/status", h.UpdateTicketStatus)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(res.Body)
	var body map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &body), string(raw))
	return res.StatusCode, body
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMyTicketsPaging(t *testing.T) {
	app := newApp(t, nil, nil)
	code, body := do(t, app, httptest.NewRequest(http.MethodGet, "/support-center/tickets/my?status=open&per_page=1&page=2", nil))
	require.Equal(t, http.StatusOK, code)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	pg := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pg["page"])
	assert.EqualValues(t, 2, pg["total"])
}

func TestAllTicketsSuperAdminOnly(t *testing.T) {
	code, _ := do(t, newApp(t, nil, nil), httptest.NewRequest(http.MethodGet, "/support-center/tickets/all", nil))
	assert.Equal(t, http.StatusForbidden, code)

	admin := &helperAuth.Claims{UserID: "1", Role: "super_admin"}
	code, body := do(t, newApp(t, nil, admin), httptest.NewRequest(http.MethodGet, "/support-center/tickets/all", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 3)

	code, _ = do(t, newApp(t, nil, nil), httptest.NewRequest(http.MethodGet, "/support-center/view/all-tickets", nil))
	assert.Equal(t, http.StatusForbidden, code)
}

func TestViewTab(t *testing.T) {
	app := newApp(t, nil, nil)
	code, body := do(t, app, httptest.NewRequest(http.MethodGet, "/support-center/view/my-tickets?search=dua", nil))
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Len(t, data["items"], 1)
	assert.Equal(t, "my-tickets", data["tab"])

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/support-center/view/entah", nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEnvelope(t *testing.T) {
	code, body := do(t, newApp(t, nil, nil), httptest.NewRequest(http.MethodGet, "/support-center/metrics", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["data"].(map[string]any)["open"])
}

func TestSubmitContactValidation(t *testing.T) {
	app := newApp(t, nil, nil)
	code, body := do(t, app, jsonReq(http.MethodPost, "/support-center/contacts", `{"name":"Sari","email":"bukan-email"}`))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "subject")

	code, body = do(t, app, jsonReq(http.MethodPost, "/support-center/contacts",
		`{"name":"Sari","email":"sari@kampus.ac.id","subject":"Halo","message":"Tolong bantu"}`))
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 9, body["data"].(map[string]any)["id"])
}

func TestSubmitBugReportWithImages(t *testing.T) {
	var got int
	app := newApp(t, &got, nil)

	build := func(n int) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("title", "Tombol simpan")
		_ = mw.WriteField("description", "tidak merespon")
		_ = mw.WriteField("priority", "high")
		for i := 0; i < n; i++ {
			fw, err := mw.CreateFormFile("images[]", "shot.png")
			require.NoError(t, err)
			_, _ = fw.Write(pngBytes(t))
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/support-center/bug-reports", &buf)
		req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
		return req
	}

	code, _ := do(t, app, build(2))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 2, got)

	code, _ = do(t, app, build(svc.MaxTicketImages+1))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateStatusBadID(t *testing.T) {
	code, _ := do(t, newApp(t, nil, nil), jsonReq(http.MethodPatch, "/support-center/tickets/abc/status", `{"status":"Closed"}`))
	assert.Equal(t, http.StatusBadRequest, code)
}
