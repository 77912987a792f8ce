package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"plog/internal/model"
	"plog/internal/repository"
	"plog/internal/util"

	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type ImageService interface {
	UploadImage(ctx context.Context, uploaderID string, file *multipart.FileHeader) (string, error)
	UploadImages(ctx context.Context, uploaderID string, files []*multipart.FileHeader) ([]string, error)
	// SetProfileImage uploads a new avatar, points the member at it and
	// retires the previous one from storage.
	SetProfileImage(ctx context.Context, memberID string, file *multipart.FileHeader) (string, error)
}

type imageService struct {
	imageRepo  repository.ImageRepository
	memberRepo repository.MemberRepository
	cloudinary *util.CloudinaryClient
}

func NewImageService(
	imageRepo repository.ImageRepository,
	memberRepo repository.MemberRepository,
	cloudinary *util.CloudinaryClient,
) ImageService {
	return &imageService{
		imageRepo:  imageRepo,
		memberRepo: memberRepo,
		cloudinary: cloudinary,
	}
}

func (s *imageService) UploadImage(ctx context.Context, uploaderID string, file *multipart.FileHeader) (string, error) {
	if s.cloudinary == nil {
		return "", ErrUploadsDisabled
	}
	if file == nil || file.Size == 0 || file.Filename == "" {
		return "", ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", ErrInvalidExtension
	}

	storedName := uuid.New().String()

	stagedPath, err := s.stageUpload(file, storedName+ext)
	if err != nil {
		return "", err
	}
	defer os.Remove(stagedPath)

	uploadPath, err := s.cloudinary.CompressImage(stagedPath)
	if err != nil {
		return "", err
	}
	if uploadPath != stagedPath {
		defer os.Remove(uploadPath)
	}

	accessURL, err := s.cloudinary.UploadImage(ctx, uploadPath, storedName)
	if err != nil {
		return "", err
	}

	image := &model.Image{
		UploaderID:   uploaderID,
		OriginalName: file.Filename,
		StoredName:   storedName,
		AccessURL:    accessURL,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return "", err
	}

	return accessURL, nil
}

func (s *imageService) UploadImages(ctx context.Context, uploaderID string, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.UploadImage(ctx, uploaderID, file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *imageService) SetProfileImage(ctx context.Context, memberID string, file *multipart.FileHeader) (string, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}

	accessURL, err := s.UploadImage(ctx, memberID, file)
	if err != nil {
		return "", err
	}

	previousURL := member.ProfileImageURL
	member.ProfileImageURL = &accessURL
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return "", err
	}

	// Retire the replaced avatar; a failure here leaves an orphaned object
	// but never a broken profile
	if previousURL != nil {
		s.removeStoredImage(ctx, *previousURL)
	}

	return accessURL, nil
}

func (s *imageService) removeStoredImage(ctx context.Context, accessURL string) {
	previous, err := s.imageRepo.FindByAccessURL(ctx, accessURL)
	if err != nil {
		return
	}
	if err := s.cloudinary.DeleteImage(ctx, previous.StoredName); err != nil {
		if util.Sugar != nil {
			util.Sugar.Warnf("Failed to delete replaced image %s: %v", previous.StoredName, err)
		}
		return
	}
	if err := s.imageRepo.Delete(ctx, previous.ID); err != nil && util.Sugar != nil {
		util.Sugar.Warnf("Failed to delete image record %s: %v", previous.ID, err)
	}
}

// stageUpload copies the multipart file into the tmp directory so the
// cloudinary client can work from a real path.
func (s *imageService) stageUpload(file *multipart.FileHeader, name string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmpDir, err := util.EnsureTmpDir()
	if err != nil {
		return "", err
	}

	stagedPath := filepath.Join(tmpDir, name)
	dst, err := os.Create(stagedPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(stagedPath)
		return "", err
	}
	return stagedPath, nil
}
