// file: internals/features/support_center/dto/upstream_dto.go
package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	helper "akademikku_backend/internals/helpers"

	pb "akademikku_backend/internals/features/akademik/peta_blok/dto"
	m "akademikku_backend/internals/features/support_center/model"
)

/* =========================
   Tipe fleksibel
   ========================= */

// FlexBool: true/false, 1/0, "1"/"0", "true"/"false".
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(b)), `"`))
	*f = FlexBool(s == "true" || s == "1" || s == "yes")
	return nil
}

// URLList: ["a.webp"], [{"url":"a.webp"}], atau string JSON '["a.webp"]'.
type URLList []string

func (u *URLList) UnmarshalJSON(b []byte) error {
	*u = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			return u.UnmarshalJSON([]byte(s))
		}
		if s != "" {
			*u = URLList{s}
		}
	case '[':
		var items []json.RawMessage
		if err := sonic.Unmarshal(b, &items); err != nil {
			return nil
		}
		for _, raw := range items {
			var s string
			if sonic.Unmarshal(raw, &s) == nil {
				if s = strings.TrimSpace(s); s != "" {
					*u = append(*u, s)
				}
				continue
			}
			var obj struct {
				URL  string `json:"url"`
				Path string `json:"path"`
			}
			if sonic.Unmarshal(raw, &obj) == nil {
				if v := strings.TrimSpace(obj.URL + obj.Path); v != "" {
					*u = append(*u, v)
				}
			}
		}
	}
	return nil
}

// TagList: array string atau "a, b, c".
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	*t = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '[' {
		var arr []string
		if err := sonic.Unmarshal(b, &arr); err != nil {
			return nil
		}
		*t = TagList(helper.SplitTags(strings.Join(arr, ",")))
		return nil
	}
	var s string
	if err := sonic.Unmarshal(b, &s); err != nil {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(s), "[") {
		return t.UnmarshalJSON([]byte(s))
	}
	*t = TagList(helper.SplitTags(s))
	return nil
}

// FlexTime: RFC3339 atau "2006-01-02 15:04:05".
type FlexTime struct{ T *time.Time }

func (f *FlexTime) UnmarshalJSON(b []byte) error {
	f.T = nil
	var s string
	if err := sonic.Unmarshal(b, &s); err != nil || strings.TrimSpace(s) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			f.T = &t
			return nil
		}
	}
	return nil
}

func first(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type namedRef struct {
	ID    pb.FlexInt `json:"id"`
	Name  string     `json:"name"`
	Nama  string     `json:"nama"`
	Email string     `json:"email"`
}

/* =========================
   Tiket
   ========================= */

type TicketRow struct {
	ID          pb.FlexInt `json:"id"`
	Type        string     `json:"type"`
	Jenis       string     `json:"jenis"`
	Title       string     `json:"title"`
	Judul       string     `json:"judul"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Deskripsi   string     `json:"deskripsi"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DeveloperID pb.FlexInt `json:"developer_id"`
	Developer   *namedRef  `json:"developer"`
	User        *namedRef  `json:"user"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Images      URLList    `json:"images"`
	CreatedAt   FlexTime   `json:"created_at"`
	UpdatedAt   FlexTime   `json:"updated_at"`
}

func (r TicketRow) ToTicket(fallback m.TicketType) m.Ticket {
	t := m.Ticket{
		ID:          r.ID.Int(),
		Title:       first(r.Title, r.Judul, r.Subject),
		Description: first(r.Description, r.Deskripsi, r.Message),
		Priority:    strings.TrimSpace(r.Priority),
		Category:    strings.TrimSpace(r.Category),
		DeveloperID: r.DeveloperID.Int(),
		Reporter:    strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Images:      []string(r.Images),
		CreatedAt:   r.CreatedAt.T,
		UpdatedAt:   r.UpdatedAt.T,
	}
	if typ, ok := m.ParseTicketType(first(r.Type, r.Jenis)); ok {
		t.Type = typ
	} else {
		t.Type = fallback
	}
	if st, ok := m.ParseStatus(r.Status); ok {
		t.Status = st
	} else {
		t.Status = m.StatusOpen
	}
	if r.Developer != nil {
		t.Developer = first(r.Developer.Name, r.Developer.Nama)
		if t.DeveloperID == 0 {
			t.DeveloperID = r.Developer.ID.Int()
		}
	}
	if r.User != nil {
		t.Reporter = first(t.Reporter, r.User.Name, r.User.Nama)
		t.Email = first(t.Email, r.User.Email)
	}
	if t.Images == nil {
		t.Images = []string{}
	}
	t.NextStatuses = m.NextStatuses(t.Status)
	return t
}

/* =========================
   Developer
   ========================= */

type DeveloperRow struct {
	ID        pb.FlexInt `json:"id"`
	Name      string     `json:"name"`
	Nama      string     `json:"nama"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	WhatsApp  string     `json:"whatsapp"`
	IsActive  *FlexBool  `json:"is_active"`
	Specialty string     `json:"specialty"`
}

func (r DeveloperRow) ToDeveloper() m.Developer {
	d := m.Developer{
		ID:        r.ID.Int(),
		Name:      first(r.Name, r.Nama),
		Email:     strings.TrimSpace(r.Email),
		Role:      strings.TrimSpace(r.Role),
		Phone:     first(r.Phone, r.WhatsApp),
		Specialty: strings.TrimSpace(r.Specialty),
		IsActive:  true,
	}
	if r.IsActive != nil {
		d.IsActive = bool(*r.IsActive)
	}
	return d
}

/* =========================
   Knowledge base
   ========================= */

type KnowledgeRow struct {
	ID          pb.FlexInt `json:"id"`
	Title       string     `json:"title"`
	Judul       string     `json:"judul"`
	Category    string     `json:"category"`
	Content     string     `json:"content"`
	Konten      string     `json:"konten"`
	Tags        TagList    `json:"tags"`
	ImageURL    string     `json:"image_url"`
	Image       string     `json:"image"`
	IsPublished *FlexBool  `json:"is_published"`
	Views       pb.FlexInt `json:"views"`
	CreatedAt   FlexTime   `json:"created_at"`
	UpdatedAt   FlexTime   `json:"updated_at"`
}

func (r KnowledgeRow) ToArticle() m.KnowledgeArticle {
	a := m.KnowledgeArticle{
		ID:          r.ID.Int(),
		Title:       first(r.Title, r.Judul),
		Category:    strings.TrimSpace(r.Category),
		Content:     first(r.Content, r.Konten),
		Tags:        []string(r.Tags),
		ImageURL:    first(r.ImageURL, r.Image),
		IsPublished: true,
		Views:       r.Views.Int(),
		CreatedAt:   r.CreatedAt.T,
		UpdatedAt:   r.UpdatedAt.T,
	}
	if r.IsPublished != nil {
		a.IsPublished = bool(*r.IsPublished)
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}
