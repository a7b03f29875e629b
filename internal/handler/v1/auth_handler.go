package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skinsight/dermascan/internal/domain"
	"github.com/skinsight/dermascan/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type updateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		LastLogin: u.LastLoginAt,
	}
}

type loginResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   userResponse      `json:"user"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, user, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, loginResponse{Tokens: tokens, User: toUserResponse(user)})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, tokens)
}

func (h *AuthHandler) Me(c *gin.Context) {
	callerID, _ := caller(c)

	user, err := h.authSvc.Me(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respondOK(c, toUserResponse(user))
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, _ := caller(c)
	user, err := h.authSvc.UpdateProfile(c.Request.Context(), callerID, req.FullName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toUserResponse(user))
}
