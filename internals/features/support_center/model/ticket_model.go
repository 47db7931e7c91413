// file: internals/features/support_center/model/ticket_model.go
package model

import (
	"strings"
	"time"
)

type TicketType string

const (
	TicketBug     TicketType = "bug"
	TicketFeature TicketType = "feature"
	TicketContact TicketType = "contact"
)

func ParseTicketType(s string) (TicketType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bug", "bug_report", "bug-report":
		return TicketBug, true
	case "feature", "feature_request", "feature-request":
		return TicketFeature, true
	case "contact", "contact_message", "message":
		return TicketContact, true
	}
	return "", false
}

// TicketStatus: empat status tiket; transisi bebas asal bukan ke status yang sama.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusResolved   TicketStatus = "Resolved"
	StatusClosed     TicketStatus = "Closed"
)

var AllStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// ParseStatus menerima label ("In Progress") maupun slug ("in_progress").
func ParseStatus(s string) (TicketStatus, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	for _, st := range AllStatuses {
		if strings.ToLower(string(st)) == k {
			return st, true
		}
	}
	return "", false
}

// NextStatuses: semua status kecuali status saat ini.
func NextStatuses(cur TicketStatus) []TicketStatus {
	out := make([]TicketStatus, 0, len(AllStatuses)-1)
	for _, st := range AllStatuses {
		if st != cur {
			out = append(out, st)
		}
	}
	return out
}

func CanTransition(from, to TicketStatus) bool {
	if _, ok := ParseStatus(string(to)); !ok {
		return false
	}
	return from != to
}

type Ticket struct {
	ID          int          `json:"id"`
	Type        TicketType   `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	Priority    string       `json:"priority,omitempty"`
	Category    string       `json:"category,omitempty"`
	DeveloperID int          `json:"developer_id,omitempty"`
	Developer   string       `json:"developer,omitempty"`
	Reporter    string       `json:"reporter,omitempty"`
	Email       string       `json:"email,omitempty"`
	Images      []string     `json:"images"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`

	NextStatuses []TicketStatus `json:"next_statuses"`
}

// SearchText: teks gabungan untuk pencarian tab.
func (t Ticket) SearchText() string {
	return strings.ToLower(strings.Join([]string{t.Title, t.Description, t.Reporter, t.Email, t.Category, t.Developer}, " "))
}

type Developer struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
	Specialty string `json:"specialty,omitempty"`
}

func (d Developer) SearchText() string {
	return strings.ToLower(strings.Join([]string{d.Name, d.Email, d.Role, d.Specialty}, " "))
}
