package app

import (
	"net/http"
	"strings"

	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	jwtSecret   string
}

func NewAuthHandler(authService service.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
	}
}

type ReissueRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignUp handles member registration
// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	memberID, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Member registered successfully", gin.H{"member_id": memberID})
}

// SignIn handles member login
// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req service.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Signed in successfully", result)
}

// Reissue handles access token renewal from a refresh token
// POST /api/v1/auth/reissue
func (h *AuthHandler) Reissue(c *gin.Context) {
	var req ReissueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Reissue(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Tokens reissued successfully", result)
}

// SignOut handles member logout
// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	memberID, exists := c.Get("memberID")
	if !exists {
		util.Unauthorized(c, "Member not authenticated")
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), memberID.(string)); err != nil {
		respondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Signed out successfully", nil)
}

// AuthMiddleware validates the bearer token and stores the member identity
// in the request context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], h.jwtSecret)
		if err != nil {
			util.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("memberID", claims.MemberID)
		c.Set("email", claims.Email)
		c.Set("nickname", claims.Nickname)
		c.Next()
	}
}
