package app

import (
	"net/http"

	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageService service.ImageService
}

func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// UploadImage handles a single image upload
// POST /api/v1/images
func (h *ImageHandler) UploadImage(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		util.BadRequest(c, "Image file is required")
		return
	}

	url, err := h.imageService.UploadImage(c.Request.Context(), memberID.(string), file)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Image uploaded successfully", gin.H{"url": url})
}

// UploadImages handles a multi-image upload
// POST /api/v1/images/batch
func (h *ImageHandler) UploadImages(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		util.BadRequest(c, "Multipart form is required")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		util.BadRequest(c, "At least one image file is required")
		return
	}

	urls, err := h.imageService.UploadImages(c.Request.Context(), memberID.(string), files)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Images uploaded successfully", gin.H{"urls": urls})
}

// SetProfileImage handles profile image replacement
// PUT /api/v1/members/me/profile-image
func (h *ImageHandler) SetProfileImage(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		util.BadRequest(c, "Image file is required")
		return
	}

	url, err := h.imageService.SetProfileImage(c.Request.Context(), memberID.(string), file)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile image updated successfully", gin.H{"url": url})
}
