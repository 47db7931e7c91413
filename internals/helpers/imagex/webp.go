// file: internals/helpers/imagex/webp.go
package imagex

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"akademikku_backend/internals/configs"
)

// ErrUnsupported: format gambar selain jpg/png/webp.
var ErrUnsupported = fmt.Errorf("format tidak didukung (pakai jpg/png/webp)")

/* =======================================================================
   Konfigurasi WebP (ENV-Driven)
======================================================================= */

type WebPOptions struct {
	MaxW        int     // batas lebar (resize keep-aspect)
	MaxH        int     // batas tinggi
	TargetKB    int     // 0 = pakai Quality saja
	Quality     float32 // quality default / tebakan awal
	MinQ        float32
	MaxQ        float32
	ToleranceKB int
	MinW        int // batas bawah iterative downscale
	MinH        int
	ScaleStep   float32 // 0<step<1
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:        configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:        configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		TargetKB:    configs.GetEnvInt("IMAGE_WEBP_TARGET_KB", 300),
		Quality:     float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
		MinQ:        45,
		MaxQ:        85,
		ToleranceKB: configs.GetEnvInt("IMAGE_WEBP_TOLERANCE_KB", 8),
		MinW:        480,
		MinH:        480,
		ScaleStep:   0.85,
	}
}

// ToWebP: decode → downscale (opsional) → encode webp.
func ToWebP(data []byte, filename string, opt WebPOptions) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("file kosong")
	}
	img, err := decodeImage(data, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	return encodeToWebP(img, opt)
}

// WebPName mengganti ekstensi file jadi .webp.
func WebPName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "image"
	}
	return base + ".webp"
}

/* =======================================================================
   Decode (sniff MIME, fallback ekstensi)
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		}
	}

	r := bytes.NewReader(all)
	switch kind {
	case "jpeg":
		return jpeg.Decode(r)
	case "png":
		return png.Decode(r)
	case "webp":
		return webp.Decode(r)
	default:
		return nil, ErrUnsupported
	}
}

/* =======================================================================
   Resize (keep aspect)
======================================================================= */

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return src
	}
	return imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
}

/* =======================================================================
   Encode WebP
   - TargetKB > 0 → binary search quality, lalu perkecil dimensi bila perlu
   - TargetKB = 0 → encode sekali dengan Quality
======================================================================= */

func encodeQ(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeQ(img, q)
	}

	target := opt.TargetKB * 1024
	tol := opt.ToleranceKB * 1024
	if tol <= 0 {
		tol = 8 * 1024
	}
	minQ, maxQ := opt.MinQ, opt.MaxQ
	if minQ <= 0 {
		minQ = 45
	}
	if maxQ <= 0 {
		maxQ = 85
	}
	if minQ > maxQ {
		minQ, maxQ = maxQ, minQ
	}
	minW, minH := opt.MinW, opt.MinH
	if minW <= 0 {
		minW = 480
	}
	if minH <= 0 {
		minH = 480
	}
	step := opt.ScaleStep
	if step <= 0 || step >= 1 {
		step = 0.85
	}

	cur := img
	var best []byte
	for attempt := 0; attempt < 6; attempt++ {
		low, high := minQ, maxQ
		best = nil
		for i := 0; i < 7; i++ {
			q := (low + high) / 2
			data, err := encodeQ(cur, q)
			if err != nil {
				return nil, err
			}
			if len(data) <= target+tol {
				best = data
				low = q // masih muat → coba quality lebih tinggi
			} else {
				high = q
			}
		}
		if best == nil {
			data, err := encodeQ(cur, minQ)
			if err != nil {
				return nil, err
			}
			best = data
		}
		if len(best) <= target+tol {
			return best, nil
		}

		b := cur.Bounds()
		cw, ch := b.Dx(), b.Dy()
		if cw <= minW && ch <= minH {
			return best, nil
		}
		scale := math.Sqrt(float64(target+tol)/float64(len(best))) * 0.95
		if scale > float64(step) {
			scale = float64(step)
		} else if scale < 0.5 {
			scale = 0.5
		}
		nw := int(math.Round(float64(cw) * scale))
		if nw < minW {
			nw = minW
		}
		if nw >= cw {
			return best, nil
		}
		cur = imaging.Resize(cur, nw, 0, imaging.CatmullRom)
	}
	return best, nil
}
