package util

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"plog/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const tmpDirName = "tmp"

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
	cfg *config.Config
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld: cld,
		cfg: cfg,
	}, nil
}

// UploadImage uploads an image file to Cloudinary under the configured
// folder with the given public id (delivered as WebP).
func (c *CloudinaryClient) UploadImage(ctx context.Context, filePath, publicID string) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, filePath, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         c.cfg.CloudinaryFolder,
		Transformation: "q_auto,f_webp,w_1280", // WebP format, auto quality, max width 1280
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to cloudinary: %w", err)
	}

	// Inject transformation into URL so image is served as WebP
	url := result.SecureURL
	url = strings.Replace(url, "/upload/", "/upload/f_webp,q_auto,w_1280/", 1)
	return url, nil
}

// CompressImage re-encodes an image file as quality-80 JPEG in the tmp
// directory and returns the new path. WebP and GIF files are returned as-is.
func (c *CloudinaryClient) CompressImage(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
		if err != nil {
			return "", fmt.Errorf("error decoding JPEG: %w", err)
		}
	case ".png":
		img, err = png.Decode(file)
		if err != nil {
			return "", fmt.Errorf("error decoding PNG: %w", err)
		}
	case ".webp", ".gif":
		// Uploaded directly without recompression
		return filePath, nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", ext)
	}

	tmpDir, err := EnsureTmpDir()
	if err != nil {
		return "", err
	}

	compressedPath := filepath.Join(tmpDir, uuid.New().String()+".compressed.jpg")
	compressedFile, err := os.Create(compressedPath)
	if err != nil {
		return "", fmt.Errorf("error creating compressed file: %w", err)
	}
	defer compressedFile.Close()

	if err := jpeg.Encode(compressedFile, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("error encoding compressed image: %w", err)
	}

	return compressedPath, nil
}

// EnsureTmpDir ensures the tmp directory for upload staging exists.
func EnsureTmpDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		// Fallback to the system temp directory
		tmpDir := filepath.Join(os.TempDir(), tmpDirName)
		return tmpDir, os.MkdirAll(tmpDir, 0755)
	}

	tmpDir := filepath.Join(wd, tmpDirName)
	return tmpDir, os.MkdirAll(tmpDir, 0755)
}

// DeleteImage removes an uploaded image by its public id.
func (c *CloudinaryClient) DeleteImage(ctx context.Context, publicID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     c.cfg.CloudinaryFolder + "/" + publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("error deleting from cloudinary: %w", err)
	}
	return nil
}
