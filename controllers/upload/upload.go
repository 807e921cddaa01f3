package uploadControllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/middleware"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/realtime"
	"github.com/vansh565/Nexus-store/storage"
)

const FormField = "profileImage"

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": socket.StatusError, "message": message})
}

// UploadProfileImage stores a new avatar for the session's user and pushes the
// change to the user's open sockets. Must run behind middleware.RequireSession.
func UploadProfileImage(db *gorm.DB, store storage.ImageStore, directory *realtime.Directory, maxBytes int64, log *zap.Logger) gin.HandlerFunc {
	tooLarge := fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes>>20)

	return func(c *gin.Context) {
		email := c.GetString(middleware.ContextEmail)
		token := c.GetString(middleware.ContextTokenKey)
		ctx := c.Request.Context()

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		file, header, err := c.Request.FormFile(FormField)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				fail(c, http.StatusBadRequest, tooLarge)
				return
			}
			fail(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			fail(c, http.StatusBadRequest, tooLarge)
			return
		}
		ext := strings.ToLower(filepath.Ext(header.Filename))
		contentType, ok := allowedTypes[ext]
		if !ok || !sniffMatches(file, contentType) {
			fail(c, http.StatusBadRequest, "Only JPEG and PNG images are allowed")
			return
		}

		var user models.User
		if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "User not found")
				return
			}
			log.Error("failed to load user", zap.String("email", email), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Server error")
			return
		}

		name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
		url, err := store.Save(ctx, name, file, header.Size, contentType)
		if err != nil {
			log.Error("failed to save image", zap.String("email", email), zap.Error(err))
			fail(c, http.StatusInternalServerError, "Failed to save image")
			return
		}

		previous := user.UploadedImage
		updates := map[string]any{"profile_image": url, "uploaded_image": url}
		if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates).Error; err != nil {
			log.Error("failed to update profile image", zap.String("email", email), zap.Error(err))
			if rmErr := store.Remove(ctx, url); rmErr != nil {
				log.Warn("failed to remove orphaned image", zap.String("image", url), zap.Error(rmErr))
			}
			fail(c, http.StatusInternalServerError, "Server error")
			return
		}
		user.ProfileImage = url
		user.UploadedImage = url

		if previous != "" && previous != url {
			if err := store.Remove(ctx, previous); err != nil {
				log.Warn("failed to remove previous image", zap.String("image", previous), zap.Error(err))
			}
		}

		directory.Broadcast(token, &socket.Reply{
			Type:         "updateProfile",
			Status:       socket.StatusSuccess,
			Message:      "Profile image updated successfully",
			User:         &user,
			ProfileImage: url,
		})

		c.JSON(http.StatusOK, gin.H{
			"status":       socket.StatusSuccess,
			"message":      "Profile image updated successfully",
			"profileImage": url,
		})
	}
}

// sniffMatches checks the leading bytes against the expected type and rewinds
// the file.
func sniffMatches(file multipart.File, want string) bool {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return http.DetectContentType(head[:n]) == want
}

// MethodNotAllowed answers any non-POST request on the upload path.
func MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	fail(c, http.StatusMethodNotAllowed, "Method not allowed")
}
