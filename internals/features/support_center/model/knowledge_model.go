// file: internals/features/support_center/model/knowledge_model.go
package model

import (
	"strings"
	"time"
)

type KnowledgeArticle struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category,omitempty"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html,omitempty"`
	Tags        []string   `json:"tags"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsPublished bool       `json:"is_published"`
	Views       int        `json:"views"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (a KnowledgeArticle) SearchText() string {
	return strings.ToLower(strings.Join(append([]string{a.Title, a.Content, a.Category}, a.Tags...), " "))
}

func (a KnowledgeArticle) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
