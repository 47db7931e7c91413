// file: internals/features/support_center/model/view_model.go
package model

import (
	"encoding/json"
	"sort"
	"strings"

	helper "akademikku_backend/internals/helpers"
)

type Tab string

const (
	TabBugReport      Tab = "bug-report"
	TabFeatureRequest Tab = "feature-request"
	TabContact        Tab = "contact"
	TabMyTickets      Tab = "my-tickets"
	TabAllTickets     Tab = "all-tickets"
	TabMetrics        Tab = "metrics"
	TabKnowledge      Tab = "knowledge"
	TabDevelopers     Tab = "developers"
)

var AllTabs = []Tab{
	TabBugReport, TabFeatureRequest, TabContact,
	TabMyTickets, TabAllTickets, TabMetrics, TabKnowledge, TabDevelopers,
}

func ParseTab(s string) (Tab, bool) {
	for _, t := range AllTabs {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

/* =========================
   Filter + aksi
   ========================= */

type Filter struct {
	Search   string `json:"search"`
	Status   string `json:"status"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

type ActionType string

const (
	ActSearch   ActionType = "search"
	ActStatus   ActionType = "status"
	ActType     ActionType = "type"
	ActCategory ActionType = "category"
	ActTag      ActionType = "tag"
	ActPage     ActionType = "page"
	ActPerPage  ActionType = "per_page"
	ActReset    ActionType = "reset"
)

type Action struct {
	Type  ActionType
	Value string
	Int   int
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// apply: perubahan filter apa pun kembali ke halaman 1.
func (f Filter) apply(a Action) Filter {
	switch a.Type {
	case ActSearch:
		f.Search, f.Page = strings.TrimSpace(a.Value), 1
	case ActStatus:
		f.Status, f.Page = strings.TrimSpace(a.Value), 1
	case ActType:
		f.Type, f.Page = strings.TrimSpace(a.Value), 1
	case ActCategory:
		f.Category, f.Page = strings.TrimSpace(a.Value), 1
	case ActTag:
		f.Tag, f.Page = strings.TrimSpace(a.Value), 1
	case ActPage:
		f.Page = a.Int
	case ActPerPage:
		f.PerPage, f.Page = a.Int, 1
	case ActReset:
		f = Filter{}
	}
	return f
}

func (f Filter) paging() helper.Paging {
	return helper.NormalizePaging(f.Page, f.PerPage, defaultPerPage, maxPerPage)
}

/* =========================
   State per tab (tagged union)
   ========================= */

// TabState: satu container state per tab. Reduce mengembalikan state baru.
type TabState interface {
	Tab() Tab
}

// FormState: tab form (bug/feature/contact) berisi definisi field + opsi.
type FormState struct {
	Kind       Tab         `json:"tab"`
	Fields     []FormField `json:"fields"`
	Developers []Developer `json:"developers,omitempty"`
	MaxImages  int         `json:"max_images"`
}

type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

func (s FormState) Tab() Tab { return s.Kind }

type TicketListState struct {
	Kind       Tab               `json:"tab"`
	Filter     Filter            `json:"filter"`
	All        []Ticket          `json:"-"`
	Items      []Ticket          `json:"items"`
	Counts     map[string]int    `json:"counts"`
	Pagination helper.Pagination `json:"pagination"`
	Statuses   []TicketStatus    `json:"statuses"`
}

func (s TicketListState) Tab() Tab { return s.Kind }

type KnowledgeState struct {
	Filter     Filter             `json:"filter"`
	All        []KnowledgeArticle `json:"-"`
	Items      []KnowledgeArticle `json:"items"`
	Categories []string           `json:"categories"`
	Tags       []string           `json:"tags"`
	Pagination helper.Pagination  `json:"pagination"`
}

func (KnowledgeState) Tab() Tab { return TabKnowledge }

type DeveloperState struct {
	Filter     Filter            `json:"filter"`
	All        []Developer       `json:"-"`
	Items      []Developer       `json:"items"`
	Pagination helper.Pagination `json:"pagination"`
}

func (DeveloperState) Tab() Tab { return TabDevelopers }

// MetricsState: angka SLA seperti yang dikirim upstream.
type MetricsState struct {
	Metrics json.RawMessage `json:"metrics"`
}

func (MetricsState) Tab() Tab { return TabMetrics }

/* =========================
   Reducer
   ========================= */

// Reduce menerapkan satu aksi ke state tab secara deterministik.
func Reduce(s TabState, a Action) TabState {
	switch st := s.(type) {
	case TicketListState:
		st.Filter = st.Filter.apply(a)
		return st.recompute()
	case KnowledgeState:
		st.Filter = st.Filter.apply(a)
		return st.recompute()
	case DeveloperState:
		st.Filter = st.Filter.apply(a)
		return st.recompute()
	default:
		return s
	}
}

// ReduceAll: lipat beberapa aksi berurutan (mis. dari query string).
func ReduceAll(s TabState, actions ...Action) TabState {
	s = refresh(s)
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func refresh(s TabState) TabState {
	switch st := s.(type) {
	case TicketListState:
		return st.recompute()
	case KnowledgeState:
		return st.recompute()
	case DeveloperState:
		return st.recompute()
	}
	return s
}

func matches(text, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	return q == "" || strings.Contains(text, q)
}

func (s TicketListState) recompute() TicketListState {
	wantStatus, statusOK := ParseStatus(s.Filter.Status)
	wantType, typeOK := ParseTicketType(s.Filter.Type)

	s.Counts = map[string]int{}
	for _, st := range AllStatuses {
		s.Counts[string(st)] = 0
	}
	filtered := make([]Ticket, 0, len(s.All))
	for _, t := range s.All {
		if !matches(t.SearchText(), s.Filter.Search) {
			continue
		}
		if typeOK && t.Type != wantType {
			continue
		}
		if s.Filter.Category != "" && !strings.EqualFold(t.Category, s.Filter.Category) {
			continue
		}
		// counts dihitung sebelum filter status
		s.Counts[string(t.Status)]++
		if statusOK && t.Status != wantStatus {
			continue
		}
		filtered = append(filtered, t)
	}
	s.Statuses = AllStatuses
	s.Items, s.Pagination = helper.SlicePage(filtered, s.Filter.paging())
	s.Filter.Page, s.Filter.PerPage = s.Pagination.Page, s.Pagination.PerPage
	return s
}

func (s KnowledgeState) recompute() KnowledgeState {
	cats := map[string]bool{}
	tags := map[string]bool{}
	filtered := make([]KnowledgeArticle, 0, len(s.All))
	for _, a := range s.All {
		if a.Category != "" {
			cats[a.Category] = true
		}
		for _, t := range a.Tags {
			tags[t] = true
		}
		if !matches(a.SearchText(), s.Filter.Search) {
			continue
		}
		if s.Filter.Category != "" && !strings.EqualFold(a.Category, s.Filter.Category) {
			continue
		}
		if s.Filter.Tag != "" && !a.HasTag(s.Filter.Tag) {
			continue
		}
		filtered = append(filtered, a)
	}
	s.Categories = sortedKeys(cats)
	s.Tags = sortedKeys(tags)
	s.Items, s.Pagination = helper.SlicePage(filtered, s.Filter.paging())
	s.Filter.Page, s.Filter.PerPage = s.Pagination.Page, s.Pagination.PerPage
	return s
}

func (s DeveloperState) recompute() DeveloperState {
	filtered := make([]Developer, 0, len(s.All))
	for _, d := range s.All {
		if !matches(d.SearchText(), s.Filter.Search) {
			continue
		}
		if s.Filter.Status != "" {
			active := strings.EqualFold(s.Filter.Status, "active") || strings.EqualFold(s.Filter.Status, "aktif")
			if d.IsActive != active {
				continue
			}
		}
		filtered = append(filtered, d)
	}
	s.Items, s.Pagination = helper.SlicePage(filtered, s.Filter.paging())
	s.Filter.Page, s.Filter.PerPage = s.Pagination.Page, s.Pagination.PerPage
	return s
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
