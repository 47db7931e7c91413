package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "akademikku_backend/internals/features/support_center/model"
)

func TestURLList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"array string", `["a.webp","b.webp"]`, []string{"a.webp", "b.webp"}},
		{"array objek", `[{"url":"a.webp"},{"path":"b.webp"}]`, []string{"a.webp", "b.webp"}},
		{"string json", `"[\"a.webp\"]"`, []string{"a.webp"}},
		{"string tunggal", `"a.webp"`, []string{"a.webp"}},
		{"null", `null`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u URLList
			require.NoError(t, sonic.Unmarshal([]byte(tc.in), &u))
			assert.Equal(t, tc.want, []string(u))
		})
	}
}

func TestTagListAndFlexBool(t *testing.T) {
	var row KnowledgeRow
	require.NoError(t, sonic.Unmarshal([]byte(`{
		"id":"4","judul":"Panduan","konten":"**x**",
		"tags":"login, akun ,,","is_published":"0"}`), &row))
	a := row.ToArticle()
	assert.Equal(t, 4, a.ID)
	assert.Equal(t, "Panduan", a.Title)
	assert.Equal(t, []string{"login", "akun"}, a.Tags)
	assert.False(t, a.IsPublished)

	require.NoError(t, sonic.Unmarshal([]byte(`{"tags":["A","b"]}`), &row))
	assert.Len(t, row.Tags, 2)
}

func TestTicketRowToTicket(t *testing.T) {
	var row TicketRow
	require.NoError(t, sonic.Unmarshal([]byte(`{
		"id":7,"subject":"Halo","message":"Isi pesan","status":"in_progress",
		"user":{"name":"Sari","email":"sari@kampus.ac.id"},
		"developer":{"id":3,"nama":"Rina"},
		"images":"[\"https://cdn/a.webp\"]",
		"created_at":"2026-10-01 08:00:00"}`), &row))

	tk := row.ToTicket(m.TicketContact)
	assert.Equal(t, 7, tk.ID)
	assert.Equal(t, m.TicketContact, tk.Type)
	assert.Equal(t, "Halo", tk.Title)
	assert.Equal(t, "Isi pesan", tk.Description)
	assert.Equal(t, m.StatusInProgress, tk.Status)
	assert.Equal(t, "Sari", tk.Reporter)
	assert.Equal(t, 3, tk.DeveloperID)
	assert.Equal(t, "Rina", tk.Developer)
	assert.Equal(t, []string{"https://cdn/a.webp"}, tk.Images)
	require.NotNil(t, tk.CreatedAt)
	assert.Equal(t, 2026, tk.CreatedAt.Year())
	assert.NotContains(t, tk.NextStatuses, m.StatusInProgress)
}

func TestTicketRowDefaults(t *testing.T) {
	tk := TicketRow{Type: "feature_request"}.ToTicket(m.TicketBug)
	assert.Equal(t, m.TicketFeature, tk.Type)
	assert.Equal(t, m.StatusOpen, tk.Status)
	assert.NotNil(t, tk.Images)
}

func TestDeveloperRow(t *testing.T) {
	var row DeveloperRow
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":2,"nama":"Dimas","whatsapp":"0812"}`), &row))
	dv := row.ToDeveloper()
	assert.True(t, dv.IsActive)
	assert.Equal(t, "Dimas", dv.Name)
	assert.Equal(t, "0812", dv.Phone)

	require.NoError(t, sonic.Unmarshal([]byte(`{"id":2,"is_active":false}`), &row))
	assert.False(t, row.ToDeveloper().IsActive)
}
