package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/dvloznov/homeapp/internal/domain"
)

// ErrUnsupportedFile is returned for attachments that are not PDF, JPEG or PNG.
var ErrUnsupportedFile = errors.New("unsupported receipt file")

const (
	DefaultJPEGQuality = 70
	// MaxPhotoEdge bounds the longest side of a re-encoded photo.
	MaxPhotoEdge = 2560
)

var documentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// PrepareDocument passes a picked file through unchanged. The content type
// is sniffed from the bytes rather than trusted from the name.
func PrepareDocument(name string, data []byte) (domain.ReceiptFile, error) {
	if len(data) == 0 {
		return domain.ReceiptFile{}, fmt.Errorf("PrepareDocument: %w: empty file", ErrUnsupportedFile)
	}
	mt := mimetype.Detect(data)
	ext, ok := documentTypes[mt.String()]
	if !ok {
		return domain.ReceiptFile{}, fmt.Errorf("PrepareDocument: %w: %s", ErrUnsupportedFile, mt.String())
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "receipt" + ext
	}
	return domain.ReceiptFile{Filename: name, ContentType: mt.String(), Data: data}, nil
}

// PreparePhoto re-encodes a captured image as JPEG at quality, shrinking it
// to MaxPhotoEdge, and names it receipt_<unix>.jpg.
func PreparePhoto(data []byte, quality int, now time.Time) (domain.ReceiptFile, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return domain.ReceiptFile{}, fmt.Errorf("PreparePhoto: %w: %v", ErrUnsupportedFile, err)
	}
	b := img.Bounds()
	if b.Dx() > MaxPhotoEdge || b.Dy() > MaxPhotoEdge {
		img = imaging.Fit(img, MaxPhotoEdge, MaxPhotoEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return domain.ReceiptFile{}, fmt.Errorf("PreparePhoto: encode: %w", err)
	}
	return domain.ReceiptFile{
		Filename:    fmt.Sprintf("receipt_%d.jpg", now.Unix()),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

// PrepareFile picks the preparation by content: images are re-encoded as
// photos, PDFs pass through untouched.
func PrepareFile(name string, data []byte, quality int, now time.Time) (domain.ReceiptFile, error) {
	file, err := PrepareDocument(name, data)
	if err != nil {
		return domain.ReceiptFile{}, err
	}
	if file.ContentType == "application/pdf" {
		return file, nil
	}
	return PreparePhoto(data, quality, now)
}
