package accountControllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/auth"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/models"
)

var (
	errCredentialsRequired = apperr.New(apperr.ValidationError, "Email and password are required")
	errEmailExists         = apperr.New(apperr.Conflict, "Email already exists")
	errBadCredentials      = apperr.New(apperr.ValidationError, "Invalid email or password")
	errUserNotFound        = apperr.New(apperr.NotFound, "User not found")
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account, its empty cart and wishlist, and a first
// session in one transaction.
func Signup(db *gorm.DB, sessionTTL time.Duration) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in credentials
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		email := NormalizeEmail(in.Email)
		if email == "" || in.Password == "" {
			return nil, errCredentialsRequired
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}

		user := models.User{
			Email:        email,
			Name:         strings.TrimSpace(in.Name),
			Password:     hash,
			ProfileImage: models.DefaultProfileImage,
		}
		var session *models.Session

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errEmailExists
			}

			if err := tx.Create(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errEmailExists
				}
				return err
			}
			if err := tx.Create(&models.Cart{UserEmail: email}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Wishlist{UserEmail: email}).Error; err != nil {
				return err
			}

			session, err = auth.CreateSession(tx, email, sessionTTL)
			return err
		})
		if err != nil {
			return nil, err
		}

		return &socket.Reply{
			Message:      "Account created successfully",
			User:         &user,
			SessionToken: session.Token,
			Cart:         socket.CartOf(nil),
			Wishlist:     socket.WishlistOf(nil),
		}, nil
	}
}

// Login replaces every existing session of the user with a new one.
func Login(db *gorm.DB, sessionTTL time.Duration) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in credentials
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		email := NormalizeEmail(in.Email)
		if email == "" || in.Password == "" {
			return nil, errCredentialsRequired
		}

		db := db.WithContext(ctx)
		user, err := models.FindUserByEmail(db, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		if err != nil {
			return nil, err
		}
		if !auth.CheckPassword(user.Password, in.Password) {
			return nil, errBadCredentials
		}

		var session *models.Session
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := auth.RevokeAll(tx, email); err != nil {
				return err
			}
			session, err = auth.CreateSession(tx, email, sessionTTL)
			return err
		})
		if err != nil {
			return nil, err
		}

		cart, err := models.CartItems(db, email)
		if err != nil {
			return nil, err
		}
		wishlist, err := models.WishlistItems(db, email)
		if err != nil {
			return nil, err
		}

		return &socket.Reply{
			Message:      "Login successful",
			User:         user,
			SessionToken: session.Token,
			Cart:         socket.CartOf(cart),
			Wishlist:     socket.WishlistOf(wishlist),
		}, nil
	}
}

// ValidateSession returns the signed-in user's state. The session itself is
// checked by the dispatcher.
func ValidateSession(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		db := db.WithContext(ctx)

		user, err := models.FindUserByEmail(db, req.Email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		if err != nil {
			return nil, err
		}
		cart, err := models.CartItems(db, req.Email)
		if err != nil {
			return nil, err
		}
		wishlist, err := models.WishlistItems(db, req.Email)
		if err != nil {
			return nil, err
		}

		return &socket.Reply{
			Message:  "Session is valid",
			User:     user,
			Cart:     socket.CartOf(cart),
			Wishlist: socket.WishlistOf(wishlist),
		}, nil
	}
}

// Logout deletes the session. Unknown or missing tokens still succeed.
func Logout(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		if req.Token != "" {
			if err := auth.RevokeSession(db.WithContext(ctx), req.Token); err != nil {
				return nil, err
			}
		}
		return &socket.Reply{Message: "Logged out successfully"}, nil
	}
}
