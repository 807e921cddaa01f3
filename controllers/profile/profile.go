package profileControllers

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	accountControllers "github.com/vansh565/Nexus-store/controllers/account"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/otp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	errInvalidEmail         = apperr.New(apperr.ValidationError, "Invalid email address")
	errEmailRegistered      = apperr.New(apperr.Conflict, "Email already registered")
	errOTPRequired          = apperr.New(apperr.ValidationError, "Email and OTP are required")
	errInvalidOTP           = apperr.New(apperr.ValidationError, "Invalid or expired OTP")
	errVerificationRequired = apperr.New(apperr.ValidationError, "Email verification required. Please request OTP.")
	errUserNotFound         = apperr.New(apperr.NotFound, "User not found")
)

// SendEmailOtp emails a fresh code to an address the user wants to switch to.
func SendEmailOtp(db *gorm.DB, store otp.Store, notifier mailer.Notifier, ttl time.Duration) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in struct {
			Email string `json:"email"`
		}
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		email := accountControllers.NormalizeEmail(in.Email)
		if !emailPattern.MatchString(email) {
			return nil, errInvalidEmail
		}

		taken, err := models.EmailTaken(db.WithContext(ctx), email, req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errEmailRegistered
		}

		code, err := otp.GenerateCode()
		if err != nil {
			return nil, err
		}
		if err := store.Save(ctx, email, code, ttl); err != nil {
			return nil, err
		}
		notifier.SendOTP(email, code, ttl)

		return &socket.Reply{Message: "OTP sent to your email"}, nil
	}
}

// VerifyEmailOtp marks the address verified so a later updateProfile may
// switch to it.
func VerifyEmailOtp(store otp.Store) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in struct {
			Email string      `json:"email"`
			OTP   socket.Text `json:"otp"`
		}
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		email := accountControllers.NormalizeEmail(in.Email)
		if email == "" || in.OTP.String() == "" {
			return nil, errOTPRequired
		}

		ok, err := store.Verify(ctx, email, in.OTP.String())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errInvalidOTP
		}
		return &socket.Reply{Message: "Email verified successfully"}, nil
	}
}

type profileInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

// UpdateProfile changes any of name, email and profile image. Changing the
// email moves sessions, cart, wishlist and orders to the new address in the
// same transaction.
func UpdateProfile(db *gorm.DB, store otp.Store) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in profileInput
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		db := db.WithContext(ctx)

		newEmail := accountControllers.NormalizeEmail(in.Email)
		changeEmail := newEmail != "" && newEmail != req.Email
		if changeEmail {
			if !emailPattern.MatchString(newEmail) {
				return nil, errInvalidEmail
			}
			taken, err := models.EmailTaken(db, newEmail, req.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, errEmailRegistered
			}
			verified, err := store.Verified(ctx, newEmail)
			if err != nil {
				return nil, err
			}
			if !verified {
				return nil, errVerificationRequired
			}
		}

		var user *models.User
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			user, err = models.FindUserByEmail(tx, req.Email)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUserNotFound
			}
			if err != nil {
				return err
			}

			updates := map[string]any{}
			if name := strings.TrimSpace(in.Name); name != "" {
				user.Name = name
				updates["name"] = name
			}
			if image := strings.TrimSpace(in.ProfileImage); image != "" {
				user.ProfileImage = image
				updates["profile_image"] = image
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
					return err
				}
			}

			if changeEmail {
				if err := models.RekeyUser(tx, req.Email, newEmail); err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return errEmailRegistered
					}
					return err
				}
				user.Email = newEmail
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if changeEmail {
			// a failed clear only leaves a verified flag that expires with the code
			_ = store.Clear(ctx, newEmail)
		}
		return &socket.Reply{Message: "Profile updated successfully", User: user}, nil
	}
}
