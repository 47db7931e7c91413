package controller

import (
	"bytes"
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
	"akademikku_backend/internals/helpers/xlsx"

	"akademikku_backend/internals/features/akademik/kelompok_kecil/repository"
	svc "akademikku_backend/internals/features/akademik/kelompok_kecil/service"
)

func upstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mahasiswa":
			_, _ = w.Write([]byte(`{"data":[
				{"id":1,"nim":"2101001","nama":"Ani Lestari","semester":3},
				{"id":2,"nim":"2101002","nama":"Budi Santoso","semester":3}]}`))
		case "/kelompok-kecil":
			_, _ = w.Write([]byte(`{"data":[{"id":9,"nim":"2101001","nama_kelompok":"1"}]}`))
		default:
			_, _ = w.Write([]byte(`{"data":null}`))
		}
	})
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstream())
	t.Cleanup(srv.Close)

	s := svc.New(apiclient.New(srv.URL, 5*time.Second), repository.NewInmemRepository(), 2)
	h := New(s)
	app := fiber.New()
	// token bawaan untuk request tanpa header Authorization
	app.Use(func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer 1|tok-bawaan")
		}
		return c.Next()
	})
	g := app.Group("/kelompok-kecil/:semester")
	g.Get("/", h.Get)
	g.Post("/select", h.Select)
	g.Post("/move", h.Move)
	g.Get("/diff", h.Diff)
	g.Post("/save", h.Save)
	g.Post("/import", h.Import)
	g.Post("/import/:id/submit", h.SubmitImport)
	g.Get("/export.xlsx", h.Export)
	return app
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(b, &out))
	return out
}

func TestSemesterParam(t *testing.T) {
	app := newApp(t)
	for _, sem := range []string{"0", "15", "abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kelompok-kecil/"+sem, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, sem)
	}
}

func TestGetDraftView(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kelompok-kecil/3", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, data["roster"], 2)
	assert.Len(t, data["groups"], 1)
	assert.Len(t, data["unassigned"], 1)
	assert.Equal(t, false, data["dirty"])
}

func TestDraftsAreScopedPerToken(t *testing.T) {
	app := newApp(t)

	move := jsonReq(http.MethodPost, "/kelompok-kecil/3/move", `{"nim":"2101002","group":7}`)
	move.Header.Set(fiber.HeaderAuthorization, "Bearer 1|userAopaque")
	resp, err := app.Test(move, 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["data"].(map[string]any)["dirty"])

	get := httptest.NewRequest(http.MethodGet, "/kelompok-kecil/3", nil)
	get.Header.Set(fiber.HeaderAuthorization, "Bearer 2|userBopaque")
	resp, err = app.Test(get, 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["data"].(map[string]any)["dirty"])

	diff := httptest.NewRequest(http.MethodGet, "/kelompok-kecil/3/diff", nil)
	diff.Header.Set(fiber.HeaderAuthorization, "Bearer 2|userBopaque")
	resp, err = app.Test(diff, 10000)
	require.NoError(t, err)
	assert.Empty(t, decode(t, resp)["data"].(map[string]any)["creates"])
}

func TestSelectValidation(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(jsonReq(http.MethodPost, "/kelompok-kecil/3/select", `{"nims":[]}`), 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["errors"], "nims")

	resp, err = app.Test(jsonReq(http.MethodPost, "/kelompok-kecil/3/select", `{bukan json`), 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMoveThenDiffAndSave(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(jsonReq(http.MethodPost, "/kelompok-kecil/3/move", `{"nim":"2101002","group":2}`), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["data"].(map[string]any)["dirty"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/kelompok-kecil/3/diff", nil), 10000)
	require.NoError(t, err)
	diff := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, diff["creates"], 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/kelompok-kecil/3/save", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	report := decode(t, resp)["data"].(map[string]any)["report"].(map[string]any)
	assert.EqualValues(t, 1, report["created"])

	resp, err = app.Test(jsonReq(http.MethodPost, "/kelompok-kecil/3/move", `{"nim":"404","group":1}`), 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func multipartFile(t *testing.T, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportWithIssuesBlocksSubmit(t *testing.T) {
	app := newApp(t)

	wb, err := xlsx.New()
	require.NoError(t, err)
	require.NoError(t, wb.Table("Data Kelompok", []string{"NIM", "NAMA", "KELOMPOK"}, [][]any{
		{"2101002", "Budi", "dua"},
	}, nil))
	content, err := wb.Bytes()
	require.NoError(t, err)
	_ = wb.Close()

	body, ct := multipartFile(t, "kelompok.xlsx", content)
	req := httptest.NewRequest(http.MethodPost, "/kelompok-kecil/3/import", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	sess := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, sess["issues"], 2)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/kelompok-kecil/3/import/"+sess["id"].(string)+"/submit", nil), 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Len(t, decode(t, resp)["details"], 2)
}

func TestImportRejectsWrongExtension(t *testing.T) {
	app := newApp(t)
	body, ct := multipartFile(t, "kelompok.csv", []byte("NIM,NAMA,KELOMPOK"))
	req := httptest.NewRequest(http.MethodPost, "/kelompok-kecil/3/import", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportAttachment(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/kelompok-kecil/3/export.xlsx", nil), 10000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsx.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kelompok-kecil-semester-3-")

	b, _ := io.ReadAll(resp.Body)
	rows, err := xlsx.ReadBytes(b, "Data Kelompok")
	require.NoError(t, err)
	assert.Equal(t, []string{"NIM", "NAMA", "KELOMPOK"}, rows[0])
	assert.Equal(t, []string{"2101001", "Ani Lestari", "1"}, rows[1])
}
