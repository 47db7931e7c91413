// file: internals/helpers/imagex/collect.go
package imagex

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"
)

const MaxUploadSize = int64(5 * 1024 * 1024)

// Default kandidat nama field yg umum dipakai FE
var defaultFileFields = []string{"images[]", "images", "image", "files[]", "files", "file"}

// Converted: satu gambar yang sudah di-re-encode ke WebP.
type Converted struct {
	Name string
	Data []byte
}

// CollectImages mengambil file gambar dari form (urut kandidat field, lalu sisa key secara urut).
func CollectImages(form *multipart.Form) []*multipart.FileHeader {
	if form == nil || form.File == nil {
		return nil
	}
	var out []*multipart.FileHeader
	seen := map[string]bool{}
	add := func(key string) {
		for _, fh := range form.File[key] {
			if fh != nil && fh.Filename != "" {
				out = append(out, fh)
			}
		}
		seen[key] = true
	}
	for _, key := range defaultFileFields {
		if len(form.File[key]) > 0 {
			add(key)
		}
	}
	rest := make([]string, 0, len(form.File))
	for key := range form.File {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return out
}

// ConvertAll membaca & re-encode semua file; maxFiles <= 0 = tanpa batas.
func ConvertAll(fhs []*multipart.FileHeader, maxFiles int, opt WebPOptions) ([]Converted, error) {
	if maxFiles > 0 && len(fhs) > maxFiles {
		return nil, fmt.Errorf("maksimal %d gambar", maxFiles)
	}
	out := make([]Converted, 0, len(fhs))
	for _, fh := range fhs {
		if fh.Size > MaxUploadSize {
			return nil, fmt.Errorf("%s terlalu besar (maks %d MB)", fh.Filename, MaxUploadSize/1024/1024)
		}
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("buka %s: %w", fh.Filename, err)
		}
		all, err := io.ReadAll(src)
		_ = src.Close()
		if err != nil {
			return nil, fmt.Errorf("baca %s: %w", fh.Filename, err)
		}
		data, err := ToWebP(all, fh.Filename, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		out = append(out, Converted{Name: WebPName(fh.Filename), Data: data})
	}
	return out, nil
}
