package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akademikku_backend/internals/helpers/apiclient"
	"akademikku_backend/internals/helpers/imagex"

	d "akademikku_backend/internals/features/support_center/dto"
	m "akademikku_backend/internals/features/support_center/model"
)

// fakeSupport merekam request terakhir per path.
type fakeSupport struct {
	mu         sync.Mutex
	statusBody map[string]any
	fields     map[string]string
	images     []string
	auth       string
}

func (f *fakeSupport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/support-center/tickets/5":
		_, _ = w.Write([]byte(`{"data":{"id":5,"title":"Login error","status":"Open","type":"bug"}}`))

	case r.Method == http.MethodPatch && r.URL.Path == "/support-center/tickets/5/status":
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &f.statusBody)
		_, _ = w.Write([]byte(`{"message":"ok"}`))

	case r.Method == http.MethodGet && r.URL.Path == "/support-center/tickets/my":
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"title":"Lama","status":"Closed","created_at":"2026-01-01 10:00:00"},
			{"id":2,"title":"Baru","status":"Open","created_at":"2026-09-01 10:00:00"}]}`))

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/bug-reports"):
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			f.fields[k] = v[0]
		}
		f.images = nil
		for _, fh := range r.MultipartForm.File["images[]"] {
			f.images = append(f.images, fh.Filename)
		}
		_, _ = w.Write([]byte(`{"data":{"id":11,"title":"Tombol simpan","status":"Open"}}`))

	case r.Method == http.MethodGet && r.URL.Path == "/support-center/metrics":
		_, _ = w.Write([]byte(`{"success":true,"data":{"open":3,"sla":{"avg_hours":4.5}}}`))

	case r.Method == http.MethodGet && r.URL.Path == "/support-center/knowledge-base/2":
		_, _ = w.Write([]byte(`{"data":{"id":2,"title":"Panduan","content":"# Judul\nbaris satu\nbaris dua\n\n<script>alert(1)</script>"}}`))

	case r.Method == http.MethodPost && r.URL.Path == "/support-center/knowledge-base/2":
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			f.fields[k] = v[0]
		}
		_, _ = w.Write([]byte(`{"data":null}`))

	case r.Method == http.MethodGet && r.URL.Path == "/support-center/developers":
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Rina","is_active":true},{"id":2,"name":"Dimas","is_active":0}]}`))

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func newSupport(t *testing.T) (*Service, *fakeSupport) {
	t.Helper()
	up := &fakeSupport{}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL, 5*time.Second)), up
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestUpdateStatus(t *testing.T) {
	s, up := newSupport(t)
	ctx := context.Background()

	tk, err := s.UpdateStatus(ctx, "tkn", 5, d.UpdateStatusRequest{Status: "resolved", Note: "beres"})
	require.NoError(t, err)
	assert.Equal(t, m.StatusResolved, tk.Status)
	assert.Equal(t, "Login error", tk.Title)
	assert.NotContains(t, tk.NextStatuses, m.StatusResolved)
	assert.Equal(t, "Resolved", up.statusBody["status"])
	assert.Equal(t, "beres", up.statusBody["note"])
	assert.Equal(t, "Bearer tkn", up.auth)

	_, err = s.UpdateStatus(ctx, "tkn", 5, d.UpdateStatusRequest{Status: "Open"})
	assert.Equal(t, http.StatusConflict, fiberCode(t, err))

	_, err = s.UpdateStatus(ctx, "tkn", 5, d.UpdateStatusRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, fiberCode(t, err))
}

func TestSubmitMultipart(t *testing.T) {
	s, up := newSupport(t)
	req := d.BugReportRequest{Title: " Tombol simpan ", Description: "tidak merespon", Priority: "high", DeveloperID: 3}
	imgs := []imagex.Converted{{Name: "a.webp", Data: []byte("RIFF")}, {Name: "b.webp", Data: []byte("RIFF")}}

	tk, err := s.Submit(context.Background(), "tkn", m.TicketBug, req.Fields(), imgs)
	require.NoError(t, err)
	assert.Equal(t, 11, tk.ID)
	assert.Equal(t, m.TicketBug, tk.Type)
	assert.Equal(t, []string{"a.webp", "b.webp"}, up.images)
	assert.Equal(t, "Tombol simpan", up.fields["title"])
	assert.Equal(t, "3", up.fields["developer_id"])

	many := make([]imagex.Converted, MaxTicketImages+1)
	_, err = s.Submit(context.Background(), "tkn", m.TicketBug, req.Fields(), many)
	assert.Equal(t, http.StatusBadRequest, fiberCode(t, err))
}

func TestListMyTicketsSorted(t *testing.T) {
	s, _ := newSupport(t)
	ts, err := s.ListMyTickets(context.Background(), "tkn")
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, 2, ts[0].ID)
}

func TestMetricsPassthrough(t *testing.T) {
	s, _ := newSupport(t)
	raw, err := s.Metrics(context.Background(), "tkn")
	require.NoError(t, err)
	assert.JSONEq(t, `{"open":3,"sla":{"avg_hours":4.5}}`, string(raw))
}

func TestGetKnowledgeRendersMarkdown(t *testing.T) {
	s, _ := newSupport(t)
	a, err := s.GetKnowledge(context.Background(), "tkn", 2)
	require.NoError(t, err)
	assert.Contains(t, a.ContentHTML, "<h1>Judul</h1>")
	assert.Contains(t, a.ContentHTML, "<br")
	assert.NotContains(t, a.ContentHTML, "<script>")
}

func TestUpdateKnowledgeMethodOverride(t *testing.T) {
	s, up := newSupport(t)
	a, err := s.UpdateKnowledge(context.Background(), "tkn", 2, d.KnowledgeRequest{
		Title: "Panduan", Content: "isi", Tags: " login, ,akun ",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, a.ID)
	assert.Equal(t, "PUT", up.fields["_method"])
	assert.Equal(t, "login,akun", up.fields["tags"])
}

func TestView(t *testing.T) {
	s, _ := newSupport(t)
	ctx := context.Background()

	st, err := s.View(ctx, "tkn", m.TabBugReport, false)
	require.NoError(t, err)
	form := st.(m.FormState)
	require.Len(t, form.Developers, 1)
	assert.Equal(t, "Rina", form.Developers[0].Name)
	assert.Equal(t, MaxTicketImages, form.MaxImages)

	_, err = s.View(ctx, "tkn", m.TabAllTickets, false)
	assert.Equal(t, http.StatusForbidden, fiberCode(t, err))

	_, err = s.View(ctx, "tkn", m.Tab("unknown"), true)
	assert.Equal(t, http.StatusNotFound, fiberCode(t, err))

	st, err = s.View(ctx, "tkn", m.TabMyTickets, false, m.Action{Type: m.ActStatus, Value: "open"})
	require.NoError(t, err)
	list := st.(m.TicketListState)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Counts["Closed"])
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	s, _ := newSupport(t)
	_, err := s.GetTicket(context.Background(), "tkn", 99)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
