package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

// app-level container to share constructed components across packages.
// main sets what it managed to connect; optional backends stay nil and the
// router falls back accordingly.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	mongoDB     *mongo.Database
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager
	mailSender mailer.Sender
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetMongo(db *mongo.Database)   { mongoDB = db }
func GetMongo() *mongo.Database     { return mongoDB }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }

// GetJWT builds a manager from the config when none was set.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil && cfg != nil {
		jwtManager = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	}
	return jwtManager
}

func SetMailer(s mailer.Sender) { mailSender = s }

// GetMailer defaults to logging mail when no transport was configured.
func GetMailer() mailer.Sender {
	if mailSender == nil {
		return mailer.NewLogSender(logger)
	}
	return mailSender
}
