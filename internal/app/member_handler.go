package app

import (
	"net/http"

	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

type UpdateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,nickname"`
}

// GetMe handles getting the authenticated member's info
// GET /api/v1/members/me
func (h *MemberHandler) GetMe(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Member retrieved successfully", gin.H{"member": member})
}

// GetMemberByNickname handles public member lookup
// GET /api/v1/members/:nickname
func (h *MemberHandler) GetMemberByNickname(c *gin.Context) {
	nickname := c.Param("nickname")
	if nickname == "" {
		util.BadRequest(c, "Nickname is required")
		return
	}

	member, err := h.memberService.GetMemberByNickname(c.Request.Context(), nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Member retrieved successfully", gin.H{"member": member})
}

// UpdateNickname handles nickname change
// PUT /api/v1/members/me/nickname
func (h *MemberHandler) UpdateNickname(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	var req UpdateNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	member, err := h.memberService.UpdateNickname(c.Request.Context(), memberID.(string), req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Nickname updated successfully", gin.H{"member": member})
}
