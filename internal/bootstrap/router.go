package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/durgapur-services/marketplace-backend/config"
	httpapi "github.com/durgapur-services/marketplace-backend/internal/api/http"
	"github.com/durgapur-services/marketplace-backend/internal/api/http/middleware"
	"github.com/durgapur-services/marketplace-backend/internal/auth"
	authhttp "github.com/durgapur-services/marketplace-backend/internal/auth/http"
	"github.com/durgapur-services/marketplace-backend/internal/auth/identitytoolkit"
	authmw "github.com/durgapur-services/marketplace-backend/internal/auth/middleware"
	authrepo "github.com/durgapur-services/marketplace-backend/internal/auth/repository"
	authsvc "github.com/durgapur-services/marketplace-backend/internal/auth/service"
	bookinghttp "github.com/durgapur-services/marketplace-backend/internal/booking/http"
	bookingrepo "github.com/durgapur-services/marketplace-backend/internal/booking/repository"
	bookingsvc "github.com/durgapur-services/marketplace-backend/internal/booking/service"
	cataloghttp "github.com/durgapur-services/marketplace-backend/internal/catalog/http"
	catalogrepo "github.com/durgapur-services/marketplace-backend/internal/catalog/repository"
	catalogsvc "github.com/durgapur-services/marketplace-backend/internal/catalog/service"
	"github.com/durgapur-services/marketplace-backend/internal/jobs"
	partnershttp "github.com/durgapur-services/marketplace-backend/internal/partners/http"
	partnersrepo "github.com/durgapur-services/marketplace-backend/internal/partners/repository"
	partnerssvc "github.com/durgapur-services/marketplace-backend/internal/partners/service"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
	reviewshttp "github.com/durgapur-services/marketplace-backend/internal/reviews/http"
	reviewsrepo "github.com/durgapur-services/marketplace-backend/internal/reviews/repository"
	reviewssvc "github.com/durgapur-services/marketplace-backend/internal/reviews/service"
	"github.com/durgapur-services/marketplace-backend/internal/storage/blob"
)

const serviceName = "marketplace-backend"

type RouterDeps struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQL    *sql.DB
	Redis  *redis.Client
	Auth   *firebaseauth.Client
	Blobs  blob.Store
}

// App is the wired HTTP surface plus the background jobs that share its
// repositories.
type App struct {
	Router    *gin.Engine
	Scheduler *jobs.Scheduler
}

// Build wires repositories, services and handlers and returns the router
// with the scheduler (not yet started).
func Build(dep RouterDeps) (*App, error) {
	cfg := dep.Config
	if err := validation.RegisterWithGin(); err != nil {
		return nil, err
	}

	bus := realtime.NewBus(dep.Redis)

	providers := catalogrepo.NewProviderRepository(dep.DB)
	views := catalogrepo.NewViewCounter(dep.Redis)
	orders := bookingrepo.NewOrderRepository(dep.DB)
	idempotency := bookingrepo.NewIdempotencyStore(dep.Redis, cfg.Booking.IdempotencyTTL, cfg.Booking.PendingKeyTTL)
	reviews := reviewsrepo.NewReviewRepository(dep.DB)
	users := authrepo.NewUserRepository(dep.SQL)
	roleCache := partnersrepo.NewRoleCache(dep.Redis, cfg.App.RoleCacheTTL)

	accounts := auth.NewAccounts(dep.Auth)
	signIn := identitytoolkit.NewClient(identitytoolkit.DefaultBaseURL, cfg.Firebase.WebAPIKey)

	roles := partnerssvc.NewRoleResolver(providers, roleCache)
	identity := authsvc.NewIdentityService(accounts, signIn, users, roles)
	sessions := authsvc.NewSessionManager(users, roles, accounts, providers, bus)
	catalog := catalogsvc.NewCatalogService(providers, views, cfg.App.City)
	booking := bookingsvc.NewBookingService(providers, orders, idempotency, bus, cfg.Booking.PaymentDelay, cfg.Booking.DefaultOrderAmount)
	reviewSvc := reviewssvc.NewReviewService(providers, orders, reviews, users, bus)
	registration := partnerssvc.NewRegistrationService(accounts, providers, dep.Blobs, roles, bus,
		blob.ImageLimits{MaxDimension: cfg.Storage.ImageMaxDimension, MaxPixels: cfg.Storage.ImageMaxPixels},
		cfg.Storage.PlaceholderImage)
	console := partnerssvc.NewConsoleService(providers, orders, reviews, views, users, registration, bus)

	limiter := middleware.NewRateLimiter(cfg.App.RateLimitRPS, cfg.App.RateLimitBurst)
	scheduler := jobs.NewScheduler(views, providers)
	if err := scheduler.AddFunc("sweep_rate_limits", "@every 5m", func(context.Context) error {
		limiter.Sweep()
		return nil
	}); err != nil {
		return nil, err
	}
	if cfg.Jobs.Enabled {
		if err := scheduler.ScheduleMaintenance(cfg.Jobs.ViewFlushSpec, cfg.Jobs.RatingSpec); err != nil {
			return nil, fmt.Errorf("jobs: %w", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, bookinghttp.HeaderIdempotencyKey},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler())

	health := httpapi.NewHealthHandler(serviceName, cfg.App.Version, dep.DB, httpapi.RedisPinger(func(ctx context.Context) error {
		return dep.Redis.Ping(ctx).Err()
	}))
	health.RegisterRoutes(r)

	api := r.Group("/api/v1")
	public := api.Group("", authmw.OptionalFirebaseAuth(dep.Auth))
	authed := api.Group("", authmw.FirebaseAuthMiddleware(dep.Auth))
	limit := limiter.Middleware()

	authhttp.New(identity, sessions, bus).Register(public, authed, limit)
	cataloghttp.New(catalog, bus).Register(public)
	bookinghttp.New(booking).Register(authed, limit)
	reviewshttp.New(reviewSvc, bus).Register(public, authed, limit)
	partnershttp.New(console, registration, roles, bus).Register(public, authed, limit)

	return &App{Router: r, Scheduler: scheduler}, nil
}
