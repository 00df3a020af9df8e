package routes

import (
	"padelcourt/cmd/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services bundles what the HTTP layer talks to.
type Services struct {
	Auth          AuthService
	Users         UserService
	Courts        CourtService
	Bookings      BookingService
	WaitList      WaitListService
	Notifications NotificationService
	Messages      MessageService
	Exports       ExportService
	Gallery       GalleryService
	Contact       ContactService
	Audit         AuditService
}

type Limits struct {
	RPS   float64
	Burst int
}

// Register mounts every route on e. The auth endpoints get a tenth of the
// general request budget.
func Register(e *echo.Echo, s Services, limits Limits) {
	authRoutes := NewAuthDefault(s.Auth)
	userRoutes := NewUserDefault(s.Users)
	courtRoutes := NewCourtDefault(s.Courts)
	bookingRoutes := NewBookingDefault(s.Bookings)
	waitListRoutes := NewWaitListDefault(s.WaitList)
	notificationRoutes := NewNotificationDefault(s.Notifications)
	messageRoutes := NewMessageDefault(s.Messages)
	exportRoutes := NewExportDefault(s.Exports)
	galleryRoutes := NewGalleryDefault(s.Gallery)
	contactRoutes := NewContactDefault(s.Contact)
	auditRoutes := NewAuditDefault(s.Audit)
	serviceRoutes := NewServiceDefault()

	authn := Authenticate(s.Auth)
	admin := RequireRole(entity.RoleAdmin)

	e.GET("/health", serviceRoutes.Health)
	e.GET("/api-docs", serviceRoutes.Docs)
	e.GET("/metrics", serviceRoutes.Metrics())

	api := e.Group("/api", NewIPRateLimiter(limits.RPS, limits.Burst).Middleware())

	// Auth
	authBurst := max(limits.Burst/10, 1)
	auth := api.Group("/auth", NewIPRateLimiter(limits.RPS/10, authBurst).Middleware())
	auth.POST("/register", authRoutes.Register)
	auth.POST("/login", authRoutes.Login)
	auth.POST("/refresh", authRoutes.Refresh)
	auth.POST("/logout", authRoutes.Logout, OptionalAuthenticate(s.Auth))

	// Users and profile
	api.GET("/users", userRoutes.GetUsers, authn)
	api.GET("/users/online", userRoutes.GetOnlineUsers, authn)
	api.GET("/users/:id", userRoutes.GetUser, authn)
	api.GET("/profile", userRoutes.GetProfile, authn)
	api.PUT("/profile", userRoutes.UpdateProfile, authn)

	// Admin
	adm := api.Group("/admin", authn, admin)
	adm.GET("/users", userRoutes.ListUsers)
	adm.PATCH("/users/:id/status", userRoutes.SetUserStatus)
	adm.GET("/audit-logs", auditRoutes.GetAuditLogs)
	adm.POST("", userRoutes.CreateAdmin)
	adm.PATCH("/:id", userRoutes.UpdateAdmin)

	// Courts
	api.GET("/courts", courtRoutes.GetCourts)
	api.GET("/courts/:id", courtRoutes.GetCourt)
	api.POST("/courts", courtRoutes.CreateCourt, authn, admin)
	api.PATCH("/courts/:id", courtRoutes.UpdateCourt, authn, admin)
	api.DELETE("/courts/:id", courtRoutes.DeleteCourt, authn, admin)

	// Bookings
	bookings := api.Group("/bookings", authn)
	bookings.POST("", bookingRoutes.CreateBooking)
	bookings.GET("", bookingRoutes.GetBookings)
	bookings.GET("/my-bookings", bookingRoutes.GetMyBookings)
	bookings.GET("/:id", bookingRoutes.GetBooking)
	bookings.PATCH("/:id/cancel", bookingRoutes.CancelBooking)

	// Wait-list
	waitList := api.Group("/waitlist", authn)
	waitList.POST("", waitListRoutes.JoinWaitList)
	waitList.GET("", waitListRoutes.GetWaitList)
	waitList.DELETE("/:id", waitListRoutes.LeaveWaitList)

	// Notifications
	notifications := api.Group("/notifications", authn)
	notifications.GET("", notificationRoutes.GetNotifications)
	notifications.GET("/unread-count", notificationRoutes.GetUnreadCount)
	notifications.PATCH("/mark-all-read", notificationRoutes.MarkAllAsRead)
	notifications.PATCH("/:id/read", notificationRoutes.MarkAsRead)
	notifications.DELETE("/:id", notificationRoutes.DeleteNotification)
	notifications.POST("/broadcast", notificationRoutes.Broadcast, admin)

	// Messages
	messages := api.Group("/messages", authn)
	messages.POST("", messageRoutes.SendMessage)
	messages.GET("/conversations", messageRoutes.GetConversations)
	messages.GET("/unread-count", messageRoutes.GetUnreadCount)
	messages.GET("/conversation/:userId", messageRoutes.GetConversation)
	messages.PATCH("/read/:userId", messageRoutes.MarkConversationRead)
	messages.DELETE("/:messageId", messageRoutes.DeleteMessage)

	// Exports
	api.GET("/exports/bookings", exportRoutes.ExportBookings, authn, admin)

	// Gallery
	api.GET("/gallery", galleryRoutes.GetImages)
	api.POST("/gallery", galleryRoutes.UploadImage, middleware.BodyLimit("6M"), authn, admin)
	api.PATCH("/gallery/:id", galleryRoutes.UpdateImage, authn, admin)
	api.DELETE("/gallery/:id", galleryRoutes.DeleteImage, authn, admin)

	// Contact
	api.POST("/contact", contactRoutes.SubmitContact)
}
