package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/posts-api/internal/config"
	"github.com/iliyamo/posts-api/internal/database"
	"github.com/iliyamo/posts-api/internal/handler"
	"github.com/iliyamo/posts-api/internal/middleware"
	"github.com/iliyamo/posts-api/internal/queue"
	"github.com/iliyamo/posts-api/internal/repository"
	"github.com/iliyamo/posts-api/internal/router"
	"github.com/iliyamo/posts-api/internal/service"
	"github.com/iliyamo/posts-api/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	posts := repository.NewPostRepo(db)
	logs := repository.NewLogRepo(db)

	// Missing seed roles is a configuration error: abort startup, do not
	// limp along and fail every registration instead.
	if err := seed(ctx, cfg, users, roles); err != nil {
		log.Fatalf("seed: %v", err)
	}

	// Optional infrastructure: the audit queue and the response cache both
	// degrade gracefully when their backing service is absent.
	var pub *service.AuditPublisher
	if cfg.AMQPURL != "" {
		if pub, err = service.NewAuditPublisher(cfg.AMQPURL); err != nil {
			log.Printf("rabbitmq unavailable, audit logs go straight to the database: %v", err)
			pub = nil
		} else {
			go queue.StartAuditConsumer(cfg.AMQPURL, logs)
		}
	}

	var cache echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	e := echo.New()
	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, roles, tokens),
		Users:     handler.NewUserHandler(users),
		Posts:     handler.NewPostHandler(posts),
		UserRepo:  users,
		RoleRepo:  roles,
		TokenRepo: tokens,
		Audit:     middleware.Audit(pub, logs),
		Cache:     cache,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seed inserts the default roles and, when the users table is empty, the
// bootstrap admin account so the admin route is reachable out of the box.
func seed(ctx context.Context, cfg config.Config, users *repository.UserRepo, roles *repository.RoleRepo) error {
	if err := roles.Seed(ctx); err != nil {
		return err
	}
	if _, err := roles.GetByType(ctx, repository.RoleUser); err != nil {
		return err // startup invariant: the default role must exist
	}

	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	admin, err := roles.GetByType(ctx, repository.RoleAdmin)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(cfg.SeedAdminPass, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, "admin@admin.dk", hash, "Admin", admin.ID); err != nil {
		return err
	}
	return nil
}
