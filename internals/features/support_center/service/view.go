// file: internals/features/support_center/service/view.go
package service

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"akademikku_backend/internals/constants"

	m "akademikku_backend/internals/features/support_center/model"
)

var priorityOptions = []string{"low", "medium", "high", "critical"}

func formFields(tab m.Tab) []m.FormField {
	switch tab {
	case m.TabBugReport:
		return []m.FormField{
			{Name: "title", Label: "Judul", Required: true},
			{Name: "description", Label: "Deskripsi", Required: true},
			{Name: "steps_to_reproduce", Label: "Langkah Reproduksi"},
			{Name: "priority", Label: "Prioritas", Required: true, Options: priorityOptions},
			{Name: "category", Label: "Kategori"},
			{Name: "developer_id", Label: "Developer"},
			{Name: "images[]", Label: "Lampiran Gambar"},
		}
	case m.TabFeatureRequest:
		return []m.FormField{
			{Name: "title", Label: "Judul", Required: true},
			{Name: "description", Label: "Deskripsi", Required: true},
			{Name: "use_case", Label: "Kasus Penggunaan"},
			{Name: "priority", Label: "Prioritas", Required: true, Options: priorityOptions},
			{Name: "category", Label: "Kategori"},
			{Name: "developer_id", Label: "Developer"},
			{Name: "images[]", Label: "Lampiran Gambar"},
		}
	default:
		return []m.FormField{
			{Name: "name", Label: "Nama", Required: true},
			{Name: "email", Label: "Email", Required: true},
			{Name: "subject", Label: "Subjek", Required: true},
			{Name: "message", Label: "Pesan", Required: true},
			{Name: "developer_id", Label: "Developer"},
			{Name: "images[]", Label: "Lampiran Gambar"},
		}
	}
}

// View memuat data satu tab lalu menerapkan aksi filter/pencarian/halaman.
// superAdmin dicek oleh pemanggil untuk tab all-tickets.
func (s *Service) View(ctx context.Context, token string, tab m.Tab, superAdmin bool, actions ...m.Action) (m.TabState, error) {
	var st m.TabState
	switch tab {
	case m.TabBugReport, m.TabFeatureRequest, m.TabContact:
		devs, err := s.ListDevelopers(ctx, token)
		if err != nil {
			return nil, err
		}
		active := make([]m.Developer, 0, len(devs))
		for _, dv := range devs {
			if dv.IsActive {
				active = append(active, dv)
			}
		}
		st = m.FormState{Kind: tab, Fields: formFields(tab), Developers: active, MaxImages: MaxTicketImages}

	case m.TabMyTickets:
		ts, err := s.ListMyTickets(ctx, token)
		if err != nil {
			return nil, err
		}
		st = m.TicketListState{Kind: tab, All: ts}

	case m.TabAllTickets:
		if !superAdmin {
			return nil, fiber.NewError(http.StatusForbidden, constants.RoleErrorSuperAdmin("semua tiket"))
		}
		ts, err := s.ListAllTickets(ctx, token)
		if err != nil {
			return nil, err
		}
		st = m.TicketListState{Kind: tab, All: ts}

	case m.TabMetrics:
		raw, err := s.Metrics(ctx, token)
		if err != nil {
			return nil, err
		}
		st = m.MetricsState{Metrics: raw}

	case m.TabKnowledge:
		as, err := s.ListKnowledge(ctx, token)
		if err != nil {
			return nil, err
		}
		st = m.KnowledgeState{All: as}

	case m.TabDevelopers:
		devs, err := s.ListDevelopers(ctx, token)
		if err != nil {
			return nil, err
		}
		st = m.DeveloperState{All: devs}

	default:
		return nil, fiber.NewError(http.StatusNotFound, "Tab tidak dikenal")
	}
	return m.ReduceAll(st, actions...), nil
}
