package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/internal/container"
	mongoinfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/mongodb"
	pginfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/postgres"
	"github.com/1010nishant/BookMyTrip/internal/router"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

func main() {
	os.Exit(run())
}

// run owns every resource the server opens so its deferred cleanup runs
// before the process exits with the returned code.
func run() int {
	_ = godotenv.Load("config.env", ".env") // load env files if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return 1
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Error("failed to connect to postgres")
		return 1
	}
	defer pool.Close()
	logger.Info("DB connection successful!")

	if cfg.MigrationsEnabled {
		if err := pginfra.Migrate(cfg.PostgresDSN(), logger); err != nil {
			logger.WithError(err).Error("migration failed")
			return 1
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn))

	// Redis only backs rate limiting; without it requests are not limited.
	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unavailable; rate limiting disabled")
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
		}
	}

	if cfg.TourStore == router.TourStoreMongo {
		client, err := mongoinfra.Connect(ctx, cfg.MongoDSN())
		if err != nil {
			logger.WithError(err).Warn("mongodb unavailable")
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			db := client.Database(cfg.MongoDatabase)
			if err := mongoinfra.NewTourRepository(db).EnsureIndexes(ctx); err != nil {
				logger.WithError(err).Warn("mongodb index setup failed")
			}
			container.SetMongo(db)
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.PingES(ctx, es)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; search disabled")
		} else {
			container.SetES(es)
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("failed to init GCS client; photo uploads disabled")
		} else {
			defer func() { _ = gcs.Close() }()
			container.SetGCS(gcs)
		}
	}

	closeMail := setupMail(cfg, logger)
	defer closeMail()

	r := router.NewEngine(cfg, logger)
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("App running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	exitCode := 0
	select {
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down server")
	case err := <-serveErr:
		logger.WithError(err).Error("server failed; shutting down")
		exitCode = 1
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		exitCode = 1
	}
	logger.Info("server exited properly")
	return exitCode
}

// setupMail installs the configured transport in the container and returns
// its cleanup.
func setupMail(cfg *config.Config, logger *logrus.Logger) func() {
	switch cfg.MailTransport {
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			logger.Warn("MAIL_TRANSPORT=mailgun but Mailgun is not configured; logging mail instead")
			break
		}
		container.SetMailer(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom()))
		return func() {}
	case "queue":
		pub, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; logging mail instead")
			break
		}
		container.SetMailer(mailer.NewQueueSender(pub))
		return pub.Close
	}
	container.SetMailer(mailer.NewLogSender(logger))
	return func() {}
}
