package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted photo in bytes (500 KiB).
const MaxImageSize = 500 * 1024

var (
	ErrMalformedImage  = errors.New("image must be a base64 data URL")
	ErrUnsupportedType = errors.New("image must be JPEG, PNG, WebP or GIF")
	ErrImageTooLarge   = errors.New("image must not exceed 500 KB")
	ErrTypeMismatch    = errors.New("image content does not match its declared type")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AllowedTypes lists the accepted image MIME types.
func AllowedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
}

// Upload is a decoded photo waiting to be stored.
type Upload struct {
	ContentType string
	Data        []byte
}

func (u *Upload) Size() int {
	return len(u.Data)
}

func (u *Upload) Extension() string {
	return extensions[u.ContentType]
}

// DataURL re-encodes the upload as a data URL.
func (u *Upload) DataURL() string {
	return "data:" + u.ContentType + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}

// ParseDataURL decodes a "data:<mime>;base64,<payload>" string and checks the
// declared type, the sniffed type and the size.
func ParseDataURL(s string) (*Upload, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, ErrMalformedImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrMalformedImage
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, ErrMalformedImage
	}
	contentType = strings.ToLower(contentType)
	if _, allowed := extensions[contentType]; !allowed {
		return nil, ErrUnsupportedType
	}

	// reject before decoding when the encoded form is already too long
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+2 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if !mimetype.Detect(data).Is(contentType) {
		return nil, ErrTypeMismatch
	}
	return &Upload{ContentType: contentType, Data: data}, nil
}

// ImageStore persists an upload and returns the reference kept on the report.
// Delete removes an image whose report was never saved.
type ImageStore interface {
	Put(ctx context.Context, upload *Upload) (*models.ImageRef, error)
	Delete(ctx context.Context, ref *models.ImageRef) error
}

// InlineStore keeps the photo inside the report as a data URL.
type InlineStore struct{}

func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

func (InlineStore) Put(_ context.Context, upload *Upload) (*models.ImageRef, error) {
	return &models.ImageRef{
		URL:         upload.DataURL(),
		ContentType: upload.ContentType,
		Size:        upload.Size(),
	}, nil
}

// Delete is a no-op: the data URL only lives inside the report.
func (InlineStore) Delete(context.Context, *models.ImageRef) error {
	return nil
}
