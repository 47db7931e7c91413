// file: internals/features/support_center/dto/request_dto.go
package dto

import (
	"strconv"
	"strings"

	helper "akademikku_backend/internals/helpers"
)

/* =========================
   Form tiket (multipart)
   ========================= */

type BugReportRequest struct {
	Title            string `form:"title" json:"title" validate:"required,max=200"`
	Description      string `form:"description" json:"description" validate:"required"`
	StepsToReproduce string `form:"steps_to_reproduce" json:"steps_to_reproduce"`
	Priority         string `form:"priority" json:"priority" validate:"required,oneof=low medium high critical"`
	Category         string `form:"category" json:"category"`
	DeveloperID      int    `form:"developer_id" json:"developer_id" validate:"omitempty,gt=0"`
	Page             string `form:"page" json:"page"`
}

func (r BugReportRequest) Fields() map[string]string {
	f := map[string]string{
		"title":       strings.TrimSpace(r.Title),
		"description": strings.TrimSpace(r.Description),
		"priority":    r.Priority,
	}
	putIf(f, "steps_to_reproduce", r.StepsToReproduce)
	putIf(f, "category", r.Category)
	putIf(f, "page", r.Page)
	if r.DeveloperID > 0 {
		f["developer_id"] = strconv.Itoa(r.DeveloperID)
	}
	return f
}

type FeatureRequestRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"required"`
	UseCase     string `form:"use_case" json:"use_case"`
	Priority    string `form:"priority" json:"priority" validate:"required,oneof=low medium high critical"`
	Category    string `form:"category" json:"category"`
	DeveloperID int    `form:"developer_id" json:"developer_id" validate:"omitempty,gt=0"`
}

func (r FeatureRequestRequest) Fields() map[string]string {
	f := map[string]string{
		"title":       strings.TrimSpace(r.Title),
		"description": strings.TrimSpace(r.Description),
		"priority":    r.Priority,
	}
	putIf(f, "use_case", r.UseCase)
	putIf(f, "category", r.Category)
	if r.DeveloperID > 0 {
		f["developer_id"] = strconv.Itoa(r.DeveloperID)
	}
	return f
}

type ContactRequest struct {
	Name        string `form:"name" json:"name" validate:"required,max=120"`
	Email       string `form:"email" json:"email" validate:"required,email"`
	Subject     string `form:"subject" json:"subject" validate:"required,max=200"`
	Message     string `form:"message" json:"message" validate:"required"`
	DeveloperID int    `form:"developer_id" json:"developer_id" validate:"omitempty,gt=0"`
}

func (r ContactRequest) Fields() map[string]string {
	f := map[string]string{
		"name":    strings.TrimSpace(r.Name),
		"email":   strings.TrimSpace(r.Email),
		"subject": strings.TrimSpace(r.Subject),
		"message": strings.TrimSpace(r.Message),
	}
	if r.DeveloperID > 0 {
		f["developer_id"] = strconv.Itoa(r.DeveloperID)
	}
	return f
}

func putIf(m map[string]string, k, v string) {
	if v = strings.TrimSpace(v); v != "" {
		m[k] = v
	}
}

/* =========================
   Status tiket
   ========================= */

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

/* =========================
   Developer
   ========================= */

type DeveloperRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"omitempty,max=80"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Specialty string `json:"specialty" validate:"omitempty,max=120"`
	IsActive  *bool  `json:"is_active"`
}

/* =========================
   Knowledge base (multipart)
   ========================= */

type KnowledgeRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Category    string `form:"category" json:"category" validate:"omitempty,max=80"`
	Content     string `form:"content" json:"content" validate:"required"`
	Tags        string `form:"tags" json:"tags"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// Fields: tags dipecah per koma, di-trim, yang kosong dibuang, lalu digabung ulang.
func (r KnowledgeRequest) Fields() map[string]string {
	f := map[string]string{
		"title":   strings.TrimSpace(r.Title),
		"content": r.Content,
		"tags":    strings.Join(helper.SplitTags(r.Tags), ","),
	}
	putIf(f, "category", r.Category)
	if r.IsPublished != nil {
		f["is_published"] = strconv.FormatBool(*r.IsPublished)
	}
	return f
}
