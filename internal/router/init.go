package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/container"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
	"github.com/1010nishant/BookMyTrip/internal/infrastructure/elastic"
	mongoinfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/mongodb"
	pginfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/postgres"
	handlers "github.com/1010nishant/BookMyTrip/internal/interface/http"
	"github.com/1010nishant/BookMyTrip/internal/interface/middleware"
	"github.com/1010nishant/BookMyTrip/internal/router/modules"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
)

// TourStoreMongo selects the MongoDB tour repository.
const TourStoreMongo = "mongo"

// Deps is everything the HTTP modules need.
type Deps struct {
	Auth    *application.AuthService
	Tours   *application.TourService
	Users   *application.UserService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
	Limit   modules.Limiter

	// ResetURL overrides the link base mailed with reset tokens.
	ResetURL string
	// Debug mounts /metrics and /debug/vars.
	Debug bool
}

// Mount adds every module to r.
func Mount(r *Registry, d Deps) {
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Auth, d.Cookies, d.Logger, d.ResetURL), d.Auth, d.Limit))
	r.Add(modules.NewTourModule(handlers.NewTourHandler(d.Tours), d.Auth, d.Limit))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users), d.Auth, d.Limit))
	if d.Debug {
		r.AddRoot(modules.NewDebugModule(d.Limit))
	}
}

func buildTourRepo(cfg *config.Config, logger *logrus.Logger) repo.TourRepository {
	if cfg.TourStore == TourStoreMongo {
		if db := container.GetMongo(); db != nil {
			return mongoinfra.NewTourRepository(db)
		}
		logger.Warn("TOUR_STORE=mongo but MongoDB is not connected; using postgres")
	}
	return pginfra.NewTourRepository(container.GetPGPool())
}

// BuildDeps assembles services from the container singletons.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	auth := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetMailer(),
		logger,
		cfg.MailFrom(),
		cfg.EmailFromName,
		cfg.ResetTokenTTL,
		cfg.ResetHideUnknownEmail,
	)

	var search application.TourSearcher
	if es := container.GetES(); es != nil {
		search = elastic.NewTourIndex(es, cfg.ESToursIndex, logger)
	}
	tours := application.NewTourService(
		buildTourRepo(cfg, logger),
		application.NewTourCache(cfg.TourCacheSize, cfg.TourCacheTTL),
		search,
		logger,
	)

	var photos application.PhotoStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		photos = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	var rdb *redis.Client
	if cfg.RateLimitEnabled {
		rdb = container.GetRedis()
	}
	var allow middleware.AllowFunc
	if cfg.IsDevelopment() {
		allow = middleware.AllowPrivateIP()
	}

	return Deps{
		Auth:     auth,
		Tours:    tours,
		Users:    application.NewUserService(users, photos, logger),
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.JWTCookieExpiresIn),
		Logger:   logger,
		Limit:    modules.RedisLimiter(rdb, allow, logger),
		ResetURL: cfg.ResetPasswordURL,
		Debug:    cfg.DebugMetricsEnabled,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, BuildDeps())
}
