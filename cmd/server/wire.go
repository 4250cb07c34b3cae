package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/summaries/internal/config"
	"github.com/Skotchmaster/summaries/internal/db"
	"github.com/Skotchmaster/summaries/internal/denylist"
	"github.com/Skotchmaster/summaries/internal/events"
	"github.com/Skotchmaster/summaries/internal/httpserver"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/search"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/tokens"
)

// app owns every long-lived client; Close releases them.
type app struct {
	db     *gorm.DB
	redis  redis.UniversalClient
	events events.Publisher

	deps  *httpserver.Deps
	users *service.UserService
}

func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	return db.Open(ctx, cfg.Database.URL, db.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{db: gdb}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	a.redis = redis.NewClient(redisOpts)
	store := denylist.NewRedisStore(a.redis)
	if err := store.Ping(ctx); err != nil {
		// lookups fail open, so an unreachable denylist is not fatal
		logger.Warn("denylist_unreachable", "error", err)
	}

	a.events = events.New(cfg.Kafka.Brokers)

	index, err := search.New(search.Config{
		URL:      cfg.ES.URL,
		Username: cfg.ES.User,
		Password: cfg.ES.Password,
		Index:    cfg.ES.Index,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	issuer, err := tokens.NewIssuer(tokens.Options{
		Secret:     []byte(cfg.JWT.Secret),
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	r := repo.New(gdb)
	authSvc := &service.AuthService{
		Verifier: &service.CredentialVerifier{Users: r},
		Repo:     r,
		Tokens:   issuer,
		Denylist: denylist.New(store),
	}
	a.users = &service.UserService{Repo: r, Events: a.events}

	a.deps = &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler:    &httpserver.UserHTTP{Svc: a.users},
		SummaryHandler: &httpserver.SummaryHTTP{Svc: &service.SummaryService{Repo: r, Events: a.events, Index: index}},
		CommentHandler: &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: r, Events: a.events}},
		RoleHandler:    &httpserver.RoleHTTP{Svc: &service.RoleService{Repo: r}},
		HealthHandler: &httpserver.HealthHTTP{Checks: []httpserver.Check{
			{Name: "database", Ping: func(ctx context.Context) error { return db.Ping(ctx, gdb) }},
			{Name: "denylist", Ping: store.Ping, Optional: true},
		}},
	}
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	if a.events != nil {
		errs = append(errs, a.events.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, db.Close(a.db))
	}
	return errors.Join(errs...)
}
