// file: internals/features/akademik/peta_blok/dto/flex_dto.go
package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// FlexInt menerima angka, string angka, atau null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0 // "Blok I" dsb → 0, bukan error
			return nil
		}
		*f = FlexInt(int(n))
		return nil
	}
	var n float64
	if err := sonic.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexInt(int(n))
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// FlexString menerima string, angka, atau null.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(strings.TrimSpace(string(b)))
	return nil
}

func (f FlexString) String() string { return string(f) }

// Names: daftar nama dosen dari bentuk apa pun yang dikirim upstream:
// "A", ["A","B"], [{"name":"A"}], {"name":"A"}, atau string JSON '["A"]'.
type Names []string

type person struct {
	Name      string `json:"name"`
	Nama      string `json:"nama"`
	NamaDosen string `json:"nama_dosen"`
}

func (p person) label() string {
	for _, s := range []string{p.Name, p.Nama, p.NamaDosen} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (n *Names) UnmarshalJSON(b []byte) error {
	*n = nil
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
		if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
			var inner Names
			if err := inner.UnmarshalJSON([]byte(s)); err == nil {
				*n = inner
				return nil
			}
		}
		if s != "" {
			*n = Names{s}
		}
		return nil
	case '{':
		var p person
		if err := sonic.Unmarshal(b, &p); err != nil {
			return nil
		}
		if l := p.label(); l != "" {
			*n = Names{l}
		}
		return nil
	case '[':
		var items []json.RawMessage
		if err := sonic.Unmarshal(b, &items); err != nil {
			return nil
		}
		out := make(Names, 0, len(items))
		for _, raw := range items {
			var one Names
			if err := one.UnmarshalJSON(raw); err == nil {
				out = append(out, one...)
			}
		}
		if len(out) > 0 {
			*n = out
		}
		return nil
	}
	return nil
}

// FirstNames: kandidat pertama yang tidak kosong.
func FirstNames(cands ...Names) []string {
	for _, c := range cands {
		if len(c) > 0 {
			return []string(c)
		}
	}
	return nil
}

// Ref: relasi bertingkat (ruangan, kelompok, modul) yang bisa null.
type Ref struct {
	ID           FlexInt `json:"id"`
	Nama         string  `json:"nama"`
	Name         string  `json:"name"`
	NamaKelompok string  `json:"nama_kelompok"`
	NamaModul    string  `json:"nama_modul"`
	NamaKelas    string  `json:"nama_kelas"`
}

func (r *Ref) Label() string {
	if r == nil {
		return ""
	}
	for _, s := range []string{r.Nama, r.Name, r.NamaKelompok, r.NamaModul, r.NamaKelas} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
