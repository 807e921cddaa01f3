package userControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/auth"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/realtime"
)

// UserSummary is the admin view of an account. Password hashes never leave
// the models package.
type UserSummary struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserDetail struct {
	UserSummary
	Cart     []models.CartItem     `json:"cart"`
	Wishlist []models.WishlistItem `json:"wishlist"`
	Orders   []models.Order        `json:"orders"`
}

func emailParam(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Param("email")))
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []UserSummary{}
		if err := db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Select("email", "name", "profile_image", "created_at").
			Order("created_at desc").
			Scan(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// GET /admin/users/:email
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := db.WithContext(c.Request.Context())
		email := emailParam(c)

		user, err := models.FindUserByEmail(db, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		cart, err := models.CartItems(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		wishlist, err := models.WishlistItems(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		orders, err := models.UserOrders(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, UserDetail{
			UserSummary: UserSummary{
				Email:        user.Email,
				Name:         user.Name,
				ProfileImage: user.ProfileImage,
				CreatedAt:    user.CreatedAt,
			},
			Cart:     cart,
			Wishlist: wishlist,
			Orders:   orders,
		})
	}
}

// DELETE /admin/users/:email/sessions
//
// Signs the user out everywhere. Open sockets stay connected but stop
// receiving broadcasts.
func RevokeUserSessions(db *gorm.DB, directory *realtime.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := emailParam(c)

		var tokens []string
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Session{}).Where("user_email = ?", email).Pluck("token", &tokens).Error; err != nil {
				return err
			}
			return auth.RevokeAll(tx, email)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke sessions"})
			return
		}

		for _, token := range tokens {
			directory.Drop(token)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sessions revoked", "revoked": len(tokens)})
	}
}
