package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/identity"
)

type authFixture struct {
	router     *gin.Engine
	userToken  string
	adminToken string
	noProfile  string
}

func setupAuthTest(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.Account{},
		&identity.RefreshToken{},
		&entity.Role{},
		&entity.Profile{},
	))

	provider := identity.NewGormProvider(db, nil, identity.Options{Secret: "test-secret"})
	ctx := context.Background()

	signIn := func(email string, isAdmin, withProfile bool) string {
		account, err := provider.SignUp(ctx, email, "rahasia123")
		require.NoError(t, err)
		if withProfile {
			require.NoError(t, db.Create(&entity.Profile{
				ID:             account.ID,
				PemilikMobil:   email,
				PersonalNumber: "EMP-" + email,
				PlatNomor:      "B 1 A",
				IsAdmin:        isAdmin,
			}).Error)
		}
		session, err := provider.SignIn(ctx, email, "rahasia123")
		require.NoError(t, err)
		return session.AccessToken
	}

	m := NewAuthMiddleware(provider, userRepo.NewProfileRepository(db))

	router := gin.New()
	protected := router.Group("/", m.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.Account.ID, "is_admin": user.Profile.IsAdmin})
	})
	protected.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &authFixture{
		router:     router,
		userToken:  signIn("user@example.com", false, true),
		adminToken: signIn("admin@example.com", true, true),
		noProfile:  signIn("ghost@example.com", false, false),
	}
}

func (f *authFixture) get(path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	f := setupAuthTest(t)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token tidak ditemukan. Silakan login terlebih dahulu.",
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token tidak ditemukan. Silakan login terlebih dahulu.",
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token tidak valid atau telah expired.",
		},
		{
			name:       "valid token without profile",
			header:     "Bearer " + f.noProfile,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token tidak valid atau telah expired.",
		},
		{
			name:       "valid token",
			header:     "Bearer " + f.userToken,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get("/me", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantMsg != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	f := setupAuthTest(t)

	w := f.get("/admin", "Bearer "+f.userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Akses ditolak. Hanya admin yang dapat mengakses endpoint ini.", body["message"])

	w = f.get("/admin", "Bearer "+f.adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentUserMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, CurrentUser(c))
	assert.Empty(t, AccessToken(c))
}
