package handler

import (
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/model"
	"github.com/modushop/backend/internal/service"
	"github.com/sirupsen/logrus"
)

const authUserKey = "auth_user"

func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			// fall back to the cookie the login flow sets
			token, _ = c.Cookie(authService.AccessCookieName())
		}
		if token == "" {
			respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		user, err := authService.ParseAccessToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, model.CodeUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil || !user.HasRole(service.RoleAdmin) {
			respondError(c, http.StatusForbidden, model.CodeForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RecoveryMiddleware reports panics to Sentry and answers with the standard
// envelope instead of gin's default plain 500.
func RecoveryMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"panic": rec,
				}).Error("request panicked")
				sentry.CurrentHub().Recover(rec)
				respondError(c, http.StatusInternalServerError, model.CodeServerError, "server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
