package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/foodshare/internal/container"
	"github.com/joshua-takyi/foodshare/internal/handlers"
	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/middleware"
	"github.com/joshua-takyi/foodshare/internal/realtime"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.Metrics(container.Metrics))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", handlers.Health(container.Clients.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler(container.Registry)))
	r.GET("/ws", handlers.ServeWS(
		container.Hub,
		container.Verifier,
		realtime.NewUpgrader(cfg.CORSAllowedOrigins),
		container.Logger,
	))

	api := r.Group("/api")
	api.Use(container.Limiter.Middleware())
	{
		// public routes
		api.POST("/signup", handlers.Signup(container.UserService))
		api.POST("/login", handlers.Login(container.UserService, secure))
		api.GET("/logout", handlers.Logout(secure))
		api.POST("/reset_password_request", handlers.ResetPasswordRequest(container.UserService))

		api.GET("/food_listings", handlers.ListFood(container.CatalogService))
		api.GET("/food_listings/:id", handlers.GetFood(container.CatalogService))
		api.GET("/book_listings", handlers.ListBooks(container.CatalogService))
		api.GET("/book_listings/:id", handlers.GetBook(container.CatalogService))
		api.GET("/users/:id/rating", handlers.UserRating(container.LedgerService))
		api.GET("/users/:id/presence", handlers.UserPresence(container.Hub))
		api.GET("/user/:id/posts", handlers.UserPosts(container.CatalogService))
		api.GET("/resources/:type/:id/images", handlers.ListImages(container.ImageService))
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(container.Verifier, container.UserService, secure, container.Logger))
	{
		protected.GET("/user/profile", handlers.GetProfile(container.UserService))
		protected.PUT("/user/profile", handlers.UpdateProfile(container.UserService))
		protected.GET("/food-postings", handlers.FoodPostings(container.CatalogService))
		protected.GET("/food-interested", handlers.FoodInterested(container.CatalogService))

		protected.POST("/food_listings", handlers.CreateFood(container.CatalogService))
		protected.PUT("/food_listings/:id", handlers.UpdateFood(container.CatalogService))
		protected.DELETE("/food_listings/:id", handlers.DeleteFood(container.CatalogService))
		protected.POST("/food_listings/:id/reserve", handlers.ReserveFood(container.LedgerService))

		protected.POST("/book_listings", handlers.CreateBook(container.CatalogService))
		protected.PUT("/book_listings/:id", handlers.UpdateBook(container.CatalogService))
		protected.DELETE("/book_listings/:id", handlers.DeleteBook(container.CatalogService))

		protected.POST("/reservations", handlers.CreateReservation(container.LedgerService))
		protected.GET("/reservations", handlers.ListReservations(container.LedgerService))
		protected.PATCH("/reservations/:id/status", handlers.UpdateReservationStatus(container.LedgerService))
		protected.POST("/ratings", handlers.CreateRating(container.LedgerService))
		protected.POST("/ratings/check", handlers.CheckRating(container.LedgerService))

		protected.GET("/chat-list/:userId", handlers.ChatList(container.ConversationService))
		protected.GET("/chat/:foodId", handlers.FoodChat(container.ConversationService))
		protected.POST("/chat/send", handlers.SendMessage(container.ConversationService, container.Hub, container.Metrics))
		protected.POST("/chat/messages/:id/read", handlers.MarkMessageRead(container.ConversationService, container.Hub))

		protected.GET("/saved", handlers.ListSaved(container.FavouritesService))
		protected.POST("/saved/:type/:id", handlers.SaveResource(container.FavouritesService))
		protected.DELETE("/saved/:type/:id", handlers.UnsaveResource(container.FavouritesService))

		protected.POST("/resources/:type/:id/images", handlers.UploadImage(container.ImageService))
		protected.DELETE("/images/:id", handlers.DeleteImage(container.ImageService))
	}

	return r
}
