package submission

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
)

// ImageOptions controls how captured images are prepared for upload.
type ImageOptions struct {
	MaxDimension int    // longest side in pixels, 0 keeps the original size
	JPEGQuality  int    // 1-100
	TempDir      string // empty uses os.TempDir
}

// DefaultImageOptions returns the options used when none are configured.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{MaxDimension: 1280, JPEGQuality: 85}
}

// PreparedImage is a JPEG written to a temporary file.
type PreparedImage struct {
	Path   string
	Size   int64
	Width  int
	Height int
}

// Remove deletes the temporary file.
func (p *PreparedImage) Remove() {
	if p == nil || p.Path == "" {
		return
	}
	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		GetLogger().Warn("failed to remove temporary image", logger.String("path", p.Path), logger.Error(err))
	}
}

// PrepareImage decodes a captured image, applies EXIF orientation, scales it
// to fit MaxDimension and writes it as JPEG to a uniquely named temp file.
// data may be raw image bytes, a data: URI or base64 text.
func PrepareImage(data []byte, opts ImageOptions) (*PreparedImage, error) {
	raw, err := imageBytes(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, imageError(err, "decode")
	}

	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}

	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultImageOptions().JPEGQuality
	}

	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "deteccion-"+uuid.NewString()+".jpg")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.New(err).
			Component("submission").
			Category(errors.CategoryFileIO).
			Context("operation", "create-temp-image").
			Build()
	}

	if err := imaging.Encode(file, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, imageError(err, "encode")
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return nil, errors.New(err).
			Component("submission").
			Category(errors.CategoryFileIO).
			Context("operation", "close-temp-image").
			Build()
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, errors.New(err).
			Component("submission").
			Category(errors.CategoryFileIO).
			Context("operation", "stat-temp-image").
			Build()
	}

	b := img.Bounds()
	return &PreparedImage{Path: path, Size: info.Size(), Width: b.Dx(), Height: b.Dy()}, nil
}

// imageBytes unwraps data: URIs and base64 text into raw image bytes.
func imageBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	text := strings.TrimSpace(string(data))
	if rest, ok := strings.CutPrefix(text, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, imageError(errors.NewStd("unsupported data URI"), "data-uri")
		}
		return decodeBase64(payload)
	}

	if strings.HasPrefix(http.DetectContentType(data), "image/") {
		return data, nil
	}
	return decodeBase64(text)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		return nil, imageError(err, "base64")
	}
	if len(decoded) == 0 {
		return nil, ErrNoImage
	}
	return decoded, nil
}

func imageError(err error, operation string) error {
	return errors.New(err).
		Component("submission").
		Category(errors.CategoryImage).
		Context("operation", operation).
		Build()
}
