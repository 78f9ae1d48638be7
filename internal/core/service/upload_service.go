package service

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

type uploadService struct {
	images *Images
}

// NewUploadService returns an UploadService that stores standalone images.
func NewUploadService(images *Images) ports.UploadService {
	return &uploadService{images: images}
}

func (s *uploadService) Store(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Upload, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.images.Save(ctx, img)
}
