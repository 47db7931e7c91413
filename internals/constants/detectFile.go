package constants

import (
	"path/filepath"
	"strings"
)

// Jenis file upload yang dikenali BFF
const (
	FileUnknown     = 0
	FileImage       = 1
	FileSpreadsheet = 2
)

func DetectFileTypeFromExt(filename string) int {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileImage
	case ".xlsx":
		return FileSpreadsheet
	default:
		return FileUnknown
	}
}
