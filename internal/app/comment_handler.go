package app

import (
	"net/http"
	"strconv"

	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,max=1000"`
	ParentID *string `json:"parent_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// CreateComment handles comment creation
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	commentID, err := h.commentService.CreateComment(c.Request.Context(), memberID.(string), postID, req.Content, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Comment created successfully", gin.H{"comment_id": commentID})
}

// GetCommentsByPost handles getting one page of a post's root comments
// GET /api/v1/posts/:id/comments?page=0
func (h *CommentHandler) GetCommentsByPost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	page := parsePage(c)

	comments, err := h.commentService.GetCommentsByPost(c.Request.Context(), postID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", gin.H{
		"comments": comments,
		"page":     page,
	})
}

// GetReplies handles getting one page of replies to a comment
// GET /api/v1/comments/:id/replies?page=0
func (h *CommentHandler) GetReplies(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	page := parsePage(c)

	replies, err := h.commentService.GetRepliesByComment(c.Request.Context(), commentID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Replies retrieved successfully", gin.H{
		"replies": replies,
		"page":    page,
	})
}

// UpdateComment handles comment update
// PUT /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	if _, exists := c.Get("memberID"); !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := h.commentService.UpdateComment(c.Request.Context(), commentID, req.Content); err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment updated successfully", gin.H{"comment_id": commentID})
}

// DeleteComment handles comment deletion
// DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if _, exists := c.Get("memberID"); !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment deleted successfully", nil)
}

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}
