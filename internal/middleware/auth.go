package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

const (
	ctxUserKey  = "auth_user"
	ctxTokenKey = "auth_token"
)

// AuthUser is the merged identity attached to the request context after
// RequireAuth: the verified account plus its profile (role preloaded).
type AuthUser struct {
	Account *identity.Account
	Profile *entity.Profile
}

type AuthMiddleware struct {
	provider identity.Provider
	profiles userRepo.ProfileRepository
}

func NewAuthMiddleware(provider identity.Provider, profiles userRepo.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
		profiles: profiles,
	}
}

// RequireAuth verifies the bearer token and loads the caller's profile.
// Every failure path is a 401 with one of two generic messages; the
// response never distinguishes a bad token from a missing profile.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			abortUnauthorized(c, "Token tidak ditemukan. Silakan login terlebih dahulu.")
			return
		}

		account, err := m.provider.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(c, "Token tidak valid atau telah expired.")
			return
		}

		profile, err := m.profiles.FindByID(c.Request.Context(), account.ID)
		if err != nil {
			abortUnauthorized(c, "Token tidak valid atau telah expired.")
			return
		}

		c.Set(ctxUserKey, &AuthUser{Account: account, Profile: profile})
		c.Set(ctxTokenKey, tokenString)
		c.Next()
	}
}

// RequireAdmin gates admin routes; it must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "Token tidak ditemukan. Silakan login terlebih dahulu.")
			return
		}

		if !user.Profile.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Akses ditolak. Hanya admin yang dapat mengakses endpoint ini.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *AuthUser {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*AuthUser)
	if !ok {
		return nil
	}
	return user
}

// AccessToken returns the raw bearer token set by RequireAuth.
func AccessToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}
