// file: internals/features/support_center/service/support_service.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"akademikku_backend/internals/helpers/apiclient"
	"akademikku_backend/internals/helpers/imagex"

	d "akademikku_backend/internals/features/support_center/dto"
	m "akademikku_backend/internals/features/support_center/model"
)

const (
	basePath       = "/support-center"
	developersPath = basePath + "/developers"
	ticketsPath    = basePath + "/tickets"
	metricsPath    = basePath + "/metrics"
	knowledgePath  = basePath + "/knowledge-base"

	MaxTicketImages = 5
)

var submitPaths = map[m.TicketType]string{
	m.TicketBug:     basePath + "/bug-reports",
	m.TicketFeature: basePath + "/feature-requests",
	m.TicketContact: basePath + "/contacts",
}

// HTML mentah di markdown di-escape (tanpa WithUnsafe).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type Service struct {
	Client *apiclient.Client
	WebP   imagex.WebPOptions
}

func New(client *apiclient.Client) *Service {
	return &Service{Client: client, WebP: imagex.DefaultWebPOptions()}
}

func (s *Service) cl(token string) *apiclient.Client { return s.Client.WithToken(token) }

func idPath(base string, id int) string { return base + "/" + strconv.Itoa(id) }

/* =========================
   Developers
   ========================= */

func (s *Service) ListDevelopers(ctx context.Context, token string) ([]m.Developer, error) {
	var rows []d.DeveloperRow
	if err := s.cl(token).Get(ctx, developersPath, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]m.Developer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDeveloper())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Service) CreateDeveloper(ctx context.Context, token string, req d.DeveloperRequest) (m.Developer, error) {
	var row d.DeveloperRow
	if err := s.cl(token).Post(ctx, developersPath, req, &row); err != nil {
		return m.Developer{}, err
	}
	return row.ToDeveloper(), nil
}

func (s *Service) UpdateDeveloper(ctx context.Context, token string, id int, req d.DeveloperRequest) (m.Developer, error) {
	var row d.DeveloperRow
	if err := s.cl(token).Put(ctx, idPath(developersPath, id), req, &row); err != nil {
		return m.Developer{}, err
	}
	dev := row.ToDeveloper()
	if dev.ID == 0 {
		dev.ID = id
	}
	return dev, nil
}

func (s *Service) DeleteDeveloper(ctx context.Context, token string, id int) error {
	return s.cl(token).Delete(ctx, idPath(developersPath, id))
}

/* =========================
   Tiket
   ========================= */

// Submit mengirim form tiket + gambar (maks 5, di-re-encode ke WebP) sebagai multipart.
func (s *Service) Submit(ctx context.Context, token string, typ m.TicketType, fields map[string]string, images []imagex.Converted) (m.Ticket, error) {
	path, ok := submitPaths[typ]
	if !ok {
		return m.Ticket{}, fiber.NewError(http.StatusBadRequest, "Jenis tiket tidak dikenal")
	}
	if len(images) > MaxTicketImages {
		return m.Ticket{}, fiber.NewError(http.StatusBadRequest, fmt.Sprintf("Maksimal %d gambar", MaxTicketImages))
	}
	files := make([]apiclient.File, 0, len(images))
	for _, img := range images {
		files = append(files, apiclient.File{Field: "images[]", Name: img.Name, Content: img.Data})
	}
	var row d.TicketRow
	if err := s.cl(token).PostMultipart(ctx, path, fields, files, &row); err != nil {
		return m.Ticket{}, err
	}
	t := row.ToTicket(typ)
	log.Printf("[SUPPORT] tiket %s dibuat id=%d images=%d", typ, t.ID, len(files))
	return t, nil
}

func (s *Service) listTickets(ctx context.Context, token, path string) ([]m.Ticket, error) {
	var rows []d.TicketRow
	if err := s.cl(token).Get(ctx, path, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]m.Ticket, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToTicket(m.TicketBug))
	}
	sortTickets(out)
	return out, nil
}

// sortTickets: terbaru dulu, lalu id menurun.
func sortTickets(ts []m.Ticket) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i].CreatedAt, ts[j].CreatedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.After(*b)
		}
		return ts[i].ID > ts[j].ID
	})
}

func (s *Service) ListMyTickets(ctx context.Context, token string) ([]m.Ticket, error) {
	return s.listTickets(ctx, token, ticketsPath+"/my")
}

// ListAllTickets: khusus super admin (dicek di controller).
func (s *Service) ListAllTickets(ctx context.Context, token string) ([]m.Ticket, error) {
	return s.listTickets(ctx, token, ticketsPath+"/all")
}

func (s *Service) GetTicket(ctx context.Context, token string, id int) (m.Ticket, error) {
	var row d.TicketRow
	if err := s.cl(token).Get(ctx, idPath(ticketsPath, id), nil, &row); err != nil {
		return m.Ticket{}, err
	}
	return row.ToTicket(m.TicketBug), nil
}

// UpdateStatus: boleh ke status mana pun kecuali status saat ini (409).
func (s *Service) UpdateStatus(ctx context.Context, token string, id int, req d.UpdateStatusRequest) (m.Ticket, error) {
	to, ok := m.ParseStatus(req.Status)
	if !ok {
		return m.Ticket{}, fiber.NewError(http.StatusBadRequest, "Status harus Open, In Progress, Resolved, atau Closed")
	}
	cur, err := s.GetTicket(ctx, token, id)
	if err != nil {
		return m.Ticket{}, err
	}
	if !m.CanTransition(cur.Status, to) {
		return m.Ticket{}, fiber.NewError(http.StatusConflict, fmt.Sprintf("Tiket sudah berstatus %s", cur.Status))
	}

	body := map[string]string{"status": string(to)}
	if req.Note != "" {
		body["note"] = req.Note
	}
	var row d.TicketRow
	if err := s.cl(token).Patch(ctx, idPath(ticketsPath, id)+"/status", body, &row); err != nil {
		return m.Ticket{}, err
	}
	t := row.ToTicket(cur.Type)
	if t.ID == 0 {
		// upstream hanya mengembalikan pesan
		t = cur
	}
	t.Status = to
	t.NextStatuses = m.NextStatuses(to)
	log.Printf("[SUPPORT] tiket %d: %s → %s", id, cur.Status, to)
	return t, nil
}

/* =========================
   SLA metrics
   ========================= */

// Metrics mengembalikan isi data metrics upstream tanpa diolah.
func (s *Service) Metrics(ctx context.Context, token string) ([]byte, error) {
	raw, err := s.cl(token).Raw(ctx, metricsPath, nil)
	if err != nil {
		return nil, err
	}
	var inner json.RawMessage
	if err := apiclient.DecodeData(raw, &inner); err != nil || len(inner) == 0 {
		return raw, nil
	}
	return inner, nil
}

/* =========================
   Knowledge base
   ========================= */

func (s *Service) ListKnowledge(ctx context.Context, token string) ([]m.KnowledgeArticle, error) {
	var rows []d.KnowledgeRow
	if err := s.cl(token).Get(ctx, knowledgePath, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]m.KnowledgeArticle, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToArticle())
	}
	return out, nil
}

func (s *Service) GetKnowledge(ctx context.Context, token string, id int) (m.KnowledgeArticle, error) {
	var row d.KnowledgeRow
	if err := s.cl(token).Get(ctx, idPath(knowledgePath, id), nil, &row); err != nil {
		return m.KnowledgeArticle{}, err
	}
	a := row.ToArticle()
	html, err := RenderMarkdown(a.Content)
	if err != nil {
		log.Printf("[SUPPORT] render markdown artikel %d gagal: %v", id, err)
	}
	a.ContentHTML = html
	return a, nil
}

func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func knowledgeFiles(image *imagex.Converted) []apiclient.File {
	if image == nil {
		return nil
	}
	return []apiclient.File{{Field: "image", Name: image.Name, Content: image.Data}}
}

func (s *Service) CreateKnowledge(ctx context.Context, token string, req d.KnowledgeRequest, image *imagex.Converted) (m.KnowledgeArticle, error) {
	var row d.KnowledgeRow
	if err := s.cl(token).PostMultipart(ctx, knowledgePath, req.Fields(), knowledgeFiles(image), &row); err != nil {
		return m.KnowledgeArticle{}, err
	}
	return row.ToArticle(), nil
}

// UpdateKnowledge memakai POST + _method=PUT supaya multipart tetap terbaca upstream.
func (s *Service) UpdateKnowledge(ctx context.Context, token string, id int, req d.KnowledgeRequest, image *imagex.Converted) (m.KnowledgeArticle, error) {
	fields := req.Fields()
	fields["_method"] = "PUT"
	var row d.KnowledgeRow
	if err := s.cl(token).PostMultipart(ctx, idPath(knowledgePath, id), fields, knowledgeFiles(image), &row); err != nil {
		return m.KnowledgeArticle{}, err
	}
	a := row.ToArticle()
	if a.ID == 0 {
		a.ID = id
	}
	return a, nil
}

func (s *Service) DeleteKnowledge(ctx context.Context, token string, id int) error {
	return s.cl(token).Delete(ctx, idPath(knowledgePath, id))
}
