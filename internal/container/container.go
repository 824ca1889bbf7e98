package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/foodshare/internal/config"
	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/middleware"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/realtime"
	"github.com/joshua-takyi/foodshare/internal/services"
)

// Clients are the external connections opened by main. Mongo, Redis and
// Cloudinary are optional; the features they back degrade when nil.
type Clients struct {
	DB         *sqlx.DB
	Supabase   *supabase.Client
	Mongo      *mongo.Client
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
}

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clients Clients

	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	Verifier *helpers.TokenVerifier
	Limiter  *middleware.RateLimiter
	Hub      *realtime.Hub

	UserService         *services.UserService
	CatalogService      *services.CatalogService
	LedgerService       *services.LedgerService
	ConversationService *services.ConversationService
	FavouritesService   *services.FavouriteService
	ImageService        *services.ImageService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, clients Clients, verifier *helpers.TokenVerifier) *Container {
	// Initialize repositories
	pg := models.PostgresNewRepo(clients.DB)
	supa := models.SupabaseNewRepo(clients.Supabase)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	resolver := services.NewResourceResolver(pg, pg)
	conversations := services.NewConversationService(pg, pg, pg)

	// Untyped nils keep the optional interfaces comparable to nil.
	var favourites models.FavouriteRepo
	if clients.Mongo != nil {
		favourites = models.MongodbNewRepo(clients.Mongo, cfg.MongoDBDatabase)
	}
	var presence models.PresenceRepo
	if clients.Redis != nil {
		presence = models.RedisNewRepo(clients.Redis)
	}
	var uploader services.ImageUploader
	if clients.Cloudinary != nil {
		uploader = helpers.NewCloudinaryUploader(clients.Cloudinary)
	}

	images := services.NewImageService(pg, resolver, uploader)

	hub := realtime.NewHub(conversations, realtime.HubOptions{
		Presence:    presence,
		PresenceTTL: cfg.PresenceTTL,
		Metrics:     collector,
		Logger:      logger.With("component", "realtime"),
	})

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Clients:  clients,
		Registry: reg,
		Metrics:  collector,
		Verifier: verifier,
		Limiter: middleware.NewRateLimiter(
			middleware.DefaultRateLimiterConfig(cfg.RateLimitPerMinute), collector, logger),
		Hub: hub,

		UserService:         services.NewUserService(supa, pg, cfg.AllowedEmailDomain),
		CatalogService:      services.NewCatalogService(pg, pg, pg, images),
		LedgerService:       services.NewLedgerService(pg, pg, resolver),
		ConversationService: conversations,
		FavouritesService:   services.NewFavouriteService(favourites, resolver),
		ImageService:        images,
	}
}
