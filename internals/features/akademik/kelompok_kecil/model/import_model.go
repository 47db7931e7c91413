package model

// Kolom wajib file import.
const (
	ColNIM      = "NIM"
	ColNama     = "NAMA"
	ColKelompok = "KELOMPOK"
)

var ImportColumns = []string{ColNIM, ColNama, ColKelompok}

// ImportRow: satu baris data (Row = nomor baris di sheet, header = 1).
type ImportRow struct {
	Row      int    `json:"row"`
	NIM      string `json:"nim"`
	Name     string `json:"name"`
	GroupRaw string `json:"group_raw"`
	Group    int    `json:"group"`
}

type IssueCode string

const (
	IssueRequired     IssueCode = "required"
	IssueGroupInvalid IssueCode = "group_invalid"
	IssueUnknownNIM   IssueCode = "unknown_nim"
	IssueNameMismatch IssueCode = "name_mismatch"
	IssueDuplicateNIM IssueCode = "duplicate_nim"
)

// ImportIssue: masalah per sel. Fixable = bisa dibetulkan AutoFix.
type ImportIssue struct {
	Row      int       `json:"row"`
	Column   string    `json:"column"`
	Code     IssueCode `json:"code"`
	Message  string    `json:"message"`
	Fixable  bool      `json:"fixable"`
	Expected string    `json:"expected,omitempty"`
}

// ImportSession: hasil parse yang menunggu submit.
type ImportSession struct {
	ID        string        `json:"id"`
	OwnerKey  string        `json:"-"`
	Semester  int           `json:"semester"`
	FileName  string        `json:"file_name"`
	Rows      []ImportRow   `json:"rows"`
	Issues    []ImportIssue `json:"issues"`
	CreatedAt int64         `json:"created_at"`
}

func (s *ImportSession) Valid() bool { return len(s.Issues) == 0 }

func (s *ImportSession) FixableCount() int {
	n := 0
	for _, is := range s.Issues {
		if is.Fixable {
			n++
		}
	}
	return n
}
