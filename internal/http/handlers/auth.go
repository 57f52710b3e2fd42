package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// Login handles POST /api/auth/token/login.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	token, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"auth_token": token})
}

// Logout handles POST /api/auth/token/logout.
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondDomainError(c, ah.log, err)
		return
	}
	response.RespondNoContent(c)
}
