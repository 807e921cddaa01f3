package userControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/auth"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/realtime"
	"github.com/vansh565/Nexus-store/testutil"
)

func newRouter(db *gorm.DB, directory *realtime.Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users", GetAllUsers(db))
	r.GET("/users/:email", GetUser(db))
	r.DELETE("/users/:email/sessions", RevokeUserSessions(db, directory))
	return r
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&models.User{Email: "ann@example.com", Name: "Ann", Password: "hash", ProfileImage: models.DefaultProfileImage, CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.User{Email: "bob@example.com", Name: "Bob", Password: "hash", ProfileImage: models.DefaultProfileImage, CreatedAt: now}).Error)
}

func TestGetAllUsers_HidesPasswords(t *testing.T) {
	db := testutil.NewDB(t)
	seed(t, db)

	w := httptest.NewRecorder()
	newRouter(db, realtime.NewDirectory(zap.NewNop())).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")

	var users []UserSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "bob@example.com", users[0].Email)
	assert.Equal(t, "Ann", users[1].Name)
}

func TestGetUser(t *testing.T) {
	db := testutil.NewDB(t)
	seed(t, db)
	cart, err := models.LoadOrCreateCart(db, "ann@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.CartID, ProductID: "p1", Name: "Lamp", Price: "1", Quantity: 2}).Error)
	r := newRouter(db, realtime.NewDirectory(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/Ann@Example.com", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var detail UserDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "ann@example.com", detail.Email)
	require.Len(t, detail.Cart, 1)
	assert.Equal(t, 2, detail.Cart[0].Quantity)
	assert.NotNil(t, detail.Wishlist)
	assert.NotNil(t, detail.Orders)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/ghost@example.com", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevokeUserSessions(t *testing.T) {
	db := testutil.NewDB(t)
	seed(t, db)
	directory := realtime.NewDirectory(zap.NewNop())

	var tokens []string
	for i := 0; i < 2; i++ {
		s, err := auth.CreateSession(db, "ann@example.com", time.Hour)
		require.NoError(t, err)
		tokens = append(tokens, s.Token)
		directory.Register(s.Token, &testutil.Conn{})
	}
	other, err := auth.CreateSession(db, "bob@example.com", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(db, directory).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/ann@example.com/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Sessions revoked","revoked":2}`, w.Body.String())

	for _, token := range tokens {
		assert.Zero(t, directory.Count(token))
		_, err := auth.ValidateSession(context.Background(), db, token)
		assert.Error(t, err)
	}
	_, err = auth.ValidateSession(context.Background(), db, other.Token)
	assert.NoError(t, err)
}
