// file: internals/features/akademik/kelompok_kecil/model/kelompok_model.go
package model

import (
	"sort"
	"strconv"
)

// Student: entri roster mahasiswa per semester.
type Student struct {
	ID              int    `json:"id"`
	NIM             string `json:"nim"`
	Name            string `json:"name"`
	Semester        int    `json:"semester"`
	IsVeteran       bool   `json:"is_veteran"`
	VeteranSemester int    `json:"veteran_semester,omitempty"` // semester yang sudah mengklaim
	MultiSemester   bool   `json:"is_multi_veteran"`
}

// LockedFor true jika mahasiswa veteran sudah diklaim semester lain
// dan tidak boleh ikut lintas semester.
func (s Student) LockedFor(semester int) bool {
	if !s.IsVeteran || s.MultiSemester {
		return false
	}
	return s.VeteranSemester > 0 && s.VeteranSemester != semester
}

// Assignment: satu mahasiswa di satu kelompok. RecordID 0 = belum ada di upstream.
type Assignment struct {
	RecordID int    `json:"record_id,omitempty"`
	NIM      string `json:"nim"`
	Name     string `json:"name,omitempty"`
	Group    int    `json:"group"`
}

// AssignmentMap: NIM → assignment.
type AssignmentMap map[string]Assignment

func (m AssignmentMap) Clone() AssignmentMap {
	out := make(AssignmentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sorted: urut kelompok lalu NIM.
func (m AssignmentMap) Sorted() []Assignment {
	out := make([]Assignment, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].NIM < out[j].NIM
	})
	return out
}

// Group: tampilan satu kelompok beserta anggotanya.
type Group struct {
	Number  int          `json:"number"`
	Label   string       `json:"label"`
	Members []Assignment `json:"members"`
}

func GroupLabel(n int) string { return "Kelompok " + strconv.Itoa(n) }

func (m AssignmentMap) Groups() []Group {
	var out []Group
	idx := map[int]int{}
	for _, a := range m.Sorted() {
		i, ok := idx[a.Group]
		if !ok {
			i = len(out)
			idx[a.Group] = i
			out = append(out, Group{Number: a.Group, Label: GroupLabel(a.Group)})
		}
		out[i].Members = append(out[i].Members, a)
	}
	return out
}

// Draft: snapshot baseline (terakhir dimuat) + assignment kerja + seleksi.
type Draft struct {
	ID        string        `json:"id"`
	OwnerKey  string        `json:"-"`
	Semester  int           `json:"semester"`
	Roster    []Student     `json:"roster"`
	Baseline  AssignmentMap `json:"-"`
	Current   AssignmentMap `json:"-"`
	Selected  []string      `json:"selected"`
	UpdatedAt int64         `json:"updated_at"`
}

func (d *Draft) Student(nim string) (Student, bool) {
	for _, s := range d.Roster {
		if s.NIM == nim {
			return s, true
		}
	}
	return Student{}, false
}

func (d *Draft) IsSelected(nim string) bool {
	for _, s := range d.Selected {
		if s == nim {
			return true
		}
	}
	return false
}

// Diff: create (NIM baru), update (kelompok berubah), delete (NIM hilang).
type Diff struct {
	Creates []Assignment `json:"creates"`
	Updates []Assignment `json:"updates"`
	Deletes []Assignment `json:"deletes"`
}

func (d Diff) Empty() bool {
	return len(d.Creates) == 0 && len(d.Updates) == 0 && len(d.Deletes) == 0
}

func (d Diff) Total() int { return len(d.Creates) + len(d.Updates) + len(d.Deletes) }

func ComputeDiff(baseline, current AssignmentMap) Diff {
	var d Diff
	for nim, cur := range current {
		base, ok := baseline[nim]
		switch {
		case !ok:
			d.Creates = append(d.Creates, cur)
		case base.Group != cur.Group:
			cur.RecordID = base.RecordID
			d.Updates = append(d.Updates, cur)
		}
	}
	for nim, base := range baseline {
		if _, ok := current[nim]; !ok {
			d.Deletes = append(d.Deletes, base)
		}
	}
	byNIM := func(xs []Assignment) {
		sort.Slice(xs, func(i, j int) bool { return xs[i].NIM < xs[j].NIM })
	}
	byNIM(d.Creates)
	byNIM(d.Updates)
	byNIM(d.Deletes)
	return d
}

// Failure: satu item batch yang gagal.
type Failure struct {
	NIM    string `json:"nim,omitempty"`
	Op     string `json:"op"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error"`
}

// SaveReport: hasil agregat penyimpanan batch.
type SaveReport struct {
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Deleted  int       `json:"deleted"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

func (r SaveReport) OK() bool { return r.Failed == 0 }

// Rejection: NIM yang ditolak saat seleksi.
type Rejection struct {
	NIM    string `json:"nim"`
	Reason string `json:"reason"`
}

// DraftView: bentuk response halaman kelompok kecil.
type DraftView struct {
	Semester   int         `json:"semester"`
	Roster     []Student   `json:"roster"`
	Selected   []string    `json:"selected"`
	Groups     []Group     `json:"groups"`
	Unassigned []Student   `json:"unassigned"`
	Pending    Diff        `json:"pending"`
	Dirty      bool        `json:"dirty"`
	Rejected   []Rejection `json:"rejected,omitempty"`
}

func (d *Draft) View() DraftView {
	v := DraftView{
		Semester: d.Semester,
		Roster:   d.Roster,
		Selected: append([]string{}, d.Selected...),
		Groups:   d.Current.Groups(),
		Pending:  ComputeDiff(d.Baseline, d.Current),
	}
	v.Dirty = !v.Pending.Empty()
	for _, s := range d.Roster {
		if _, ok := d.Current[s.NIM]; !ok {
			v.Unassigned = append(v.Unassigned, s)
		}
	}
	if v.Groups == nil {
		v.Groups = []Group{}
	}
	return v
}
