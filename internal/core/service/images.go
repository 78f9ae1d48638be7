package service

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/pkg/metrics"
)

// DefaultMaxImageBytes is the upload size limit when none is configured.
const DefaultMaxImageBytes int64 = 5 << 20

// imageTypes maps accepted content types to the stored file extension.
var imageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/gif", ".gif"},
}

// Images validates uploaded images and hands them to an ImageStore under a
// random name.
type Images struct {
	store    ports.ImageStore
	maxBytes int64
	log      zerolog.Logger
}

// NewImages returns an Images helper. A non-positive maxBytes uses DefaultMaxImageBytes.
func NewImages(store ports.ImageStore, maxBytes int64, log zerolog.Logger) *Images {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Images{store: store, maxBytes: maxBytes, log: log}
}

// MaxBytes returns the configured size limit.
func (i *Images) MaxBytes() int64 { return i.maxBytes }

// Save sniffs the content, rejects anything that is not a jpeg, png, webp or
// gif within the size limit, and stores it.
func (i *Images) Save(ctx context.Context, img ports.ImageInput) (*domain.Upload, error) {
	if len(img.Data) == 0 {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid("image file is required")
	}
	if int64(len(img.Data)) > i.maxBytes {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid(fmt.Sprintf("image exceeds %d MB", i.maxBytes>>20))
	}

	detected := mimetype.Detect(img.Data)
	var contentType, ext string
	for _, t := range imageTypes {
		if detected.Is(t.mime) {
			contentType, ext = t.mime, t.ext
			break
		}
	}
	if ext == "" {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid("only jpeg, png, webp and gif images are allowed")
	}

	name := uuid.NewString() + ext
	ref, err := i.store.Save(ctx, name, contentType, img.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store image: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	metrics.UploadBytes.Observe(float64(len(img.Data)))
	return &domain.Upload{Filename: name, URL: ref}, nil
}

// Discard deletes a superseded image. It is best-effort and never fails the caller.
func (i *Images) Discard(ctx context.Context, ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := i.store.Delete(ctx, *ref); err != nil {
		i.log.Warn().Err(err).Str("ref", *ref).Msg("failed to delete superseded image")
	}
}
