package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartControllers "github.com/vansh565/Nexus-store/controllers/cart"
	profileControllers "github.com/vansh565/Nexus-store/controllers/profile"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	uploadControllers "github.com/vansh565/Nexus-store/controllers/upload"
	wishlistControllers "github.com/vansh565/Nexus-store/controllers/wishlist"
	"github.com/vansh565/Nexus-store/middleware"
)

// userCommands are the session-scoped cart, wishlist and profile commands.
func userCommands(svc *Services) []socket.Command {
	db := svc.DB
	otpTTL := svc.Config.Session.OTPTTL
	return []socket.Command{
		// ──────────────── Shopping Cart ────────────────
		{Name: "addToCart", ReplyType: "cartUpdate", Auth: true, Delivery: socket.Broadcast, Handle: cartControllers.AddToCart(db)},
		{Name: "updateCart", ReplyType: "cartUpdate", Auth: true, Delivery: socket.Broadcast, Validate: cartControllers.ValidateUpdate, Handle: cartControllers.UpdateCart(db)},
		{Name: "removeFromCart", ReplyType: "cartUpdate", Auth: true, Delivery: socket.Broadcast, Handle: cartControllers.RemoveFromCart(db)},
		{Name: "getCart", ReplyType: "cartUpdate", Auth: true, Handle: cartControllers.GetCart(db)},

		// ──────────────── Wishlist ────────────────
		{Name: "addToWishlist", ReplyType: "wishlistUpdate", Auth: true, Handle: wishlistControllers.AddToWishlist(db)},
		{Name: "removeFromWishlist", ReplyType: "wishlistUpdate", Auth: true, Handle: wishlistControllers.RemoveFromWishlist(db)},
		{Name: "getWishlist", ReplyType: "wishlistUpdate", Auth: true, Handle: wishlistControllers.GetWishlist(db)},

		// ──────────────── Profile ────────────────
		{Name: "sendEmailOtp", Auth: true, Handle: profileControllers.SendEmailOtp(db, svc.OTP, svc.Notifier, otpTTL)},
		{Name: "verifyEmailOtp", Auth: true, Handle: profileControllers.VerifyEmailOtp(svc.OTP)},
		{Name: "updateProfile", Auth: true, Delivery: socket.Broadcast, Handle: profileControllers.UpdateProfile(db, svc.OTP)},
	}
}

// SetupUploadRoutes registers the profile image upload. Methods other than
// POST get a 405.
func SetupUploadRoutes(r *gin.Engine, svc *Services) {
	const path = "/upload-profile-image"

	r.POST(path,
		middleware.RequireSession(svc.DB),
		uploadControllers.UploadProfileImage(svc.DB, svc.Images, svc.Directory, svc.Config.Upload.MaxBytes, svc.Log),
	)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		r.Handle(method, path, uploadControllers.MethodNotAllowed)
	}
}
