package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

const msgMissingCredentials = "authentication credentials were not provided"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a valid token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return am.handle(true)
}

// OptionalAuth attaches the viewer when a token is present. A token that is
// present but invalid is still rejected.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return am.handle(false)
}

func (am *AuthMiddleware) handle(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present := extractToken(c)
		if !present {
			if required {
				response.RespondError(c, http.StatusUnauthorized, msgMissingCredentials)
				return
			}
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token rejected", "path", c.Request.URL.Path, "error", err)
			response.RespondDomainError(c, am.log, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		if rd := ctxutil.GetRequestData(ctx); rd.Authenticated() {
			c.Set("user_id", rd.UserID)
		}
		c.Next()
	}
}

// extractToken accepts "Token <key>" and "Bearer <jwt>" Authorization headers.
func extractToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(value), true
	default:
		return "", false
	}
}
