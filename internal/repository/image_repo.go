package repository

import (
	"context"

	"plog/internal/model"

	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	FindByID(ctx context.Context, id string) (*model.Image, error)
	FindByAccessURL(ctx context.Context, url string) (*model.Image, error)
	Delete(ctx context.Context, id string) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) FindByID(ctx context.Context, id string) (*model.Image, error) {
	var image model.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

func (r *imageRepository) FindByAccessURL(ctx context.Context, url string) (*model.Image, error) {
	var image model.Image
	err := r.db.WithContext(ctx).Where("access_url = ?", url).First(&image).Error
	if err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

func (r *imageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Image{}).Error
}
