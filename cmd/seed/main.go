package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/1010nishant/BookMyTrip/config"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
	mongoinfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/mongodb"
	pginfra "github.com/1010nishant/BookMyTrip/internal/infrastructure/postgres"
	"github.com/1010nishant/BookMyTrip/internal/router"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
)

// stores are the backends a seed run writes to.
type stores struct {
	pool    *pgxpool.Pool
	mongoDB *mongo.Database
	tours   repo.TourRepository
	users   repo.UserRepository
	close   func()
}

func main() {
	_ = godotenv.Load("config.env", ".env")

	app := &cli.App{
		Name:  "seed",
		Usage: "Load or wipe Natours development data",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Insert tours and users from JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tours", Usage: "path to a JSON array of tours"},
					&cli.StringFlag{Name: "users", Usage: "path to a JSON array of users (with password and passwordConfirm)"},
				},
				Action: importData,
			},
			{
				Name:   "delete",
				Usage:  "Remove every tour and user",
				Action: deleteData,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (*stores, *logrus.Logger, error) {
	cfg := config.Load()
	logger := helpers.NewLogger("natours-seed", cfg.Env, cfg.LogLevel)

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.MigrationsEnabled {
		if err := pginfra.Migrate(cfg.PostgresDSN(), logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	s := &stores{
		pool:  pool,
		tours: pginfra.NewTourRepository(pool),
		users: pginfra.NewUserRepository(pool),
		close: pool.Close,
	}

	if cfg.TourStore == router.TourStoreMongo {
		client, err := mongoinfra.Connect(ctx, cfg.MongoDSN())
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		s.mongoDB = client.Database(cfg.MongoDatabase)
		s.tours = mongoinfra.NewTourRepository(s.mongoDB)
		s.close = func() {
			_ = client.Disconnect(context.Background())
			pool.Close()
		}
	}
	return s, logger, nil
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func importData(c *cli.Context) error {
	toursPath, usersPath := c.String("tours"), c.String("users")
	if toursPath == "" && usersPath == "" {
		return cli.Exit("nothing to import: pass --tours and/or --users", 2)
	}

	ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
	defer cancel()
	s, logger, err := open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if toursPath != "" {
		var in []entity.TourInput
		if err := readJSON(toursPath, &in); err != nil {
			return fmt.Errorf("read tours: %w", err)
		}
		for i, ti := range in {
			t, err := entity.NewTour(ti)
			if err != nil {
				return fmt.Errorf("tour %d (%s): %w", i, ti.Name, err)
			}
			if err := s.tours.Create(ctx, t); err != nil {
				return fmt.Errorf("insert tour %q: %w", t.Name, err)
			}
		}
		logger.WithField("count", len(in)).Info("tours imported")
	}

	if usersPath != "" {
		var in []entity.NewUserInput
		if err := readJSON(usersPath, &in); err != nil {
			return fmt.Errorf("read users: %w", err)
		}
		for i, ui := range in {
			u, err := entity.NewUser(ui)
			if err != nil {
				return fmt.Errorf("user %d (%s): %w", i, ui.Email, err)
			}
			if err := s.users.Create(ctx, u); err != nil {
				return fmt.Errorf("insert user %q: %w", u.Email, err)
			}
		}
		logger.WithField("count", len(in)).Info("users imported")
	}

	fmt.Println("Data successfully loaded!")
	return nil
}

func deleteData(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()
	s, logger, err := open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if s.mongoDB != nil {
		res, err := s.mongoDB.Collection("tours").DeleteMany(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("delete mongo tours: %w", err)
		}
		logger.WithField("count", res.DeletedCount).Info("mongo tours deleted")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM tours`)
	if err != nil {
		return fmt.Errorf("delete tours: %w", err)
	}
	logger.WithField("count", tag.RowsAffected()).Info("tours deleted")
	tag, err = s.pool.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	logger.WithField("count", tag.RowsAffected()).Info("users deleted")

	fmt.Println("Data successfully deleted!")
	return nil
}
