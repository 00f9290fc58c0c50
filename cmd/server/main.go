// @title           Blog API
// @version         1.0
// @description     Authors, blog posts and comments with password and Google sign-in.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	_ "github.com/strivezine/blog-system/docs"
	"github.com/strivezine/blog-system/internal/api"
	"github.com/strivezine/blog-system/internal/api/handler"
	"github.com/strivezine/blog-system/internal/core/service"
	"github.com/strivezine/blog-system/internal/infrastructure/config"
	"github.com/strivezine/blog-system/internal/infrastructure/db/mongo"
	"github.com/strivezine/blog-system/internal/infrastructure/db/redis"
	"github.com/strivezine/blog-system/internal/infrastructure/oauth"
	"github.com/strivezine/blog-system/internal/infrastructure/queue"
	"github.com/strivezine/blog-system/internal/infrastructure/security"
	"github.com/strivezine/blog-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "blog-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.Disconnect(mongoClient, shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("closing mongo")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	authors := mongo.NewAuthorRepository(db)
	posts := mongo.NewBlogPostRepository(db)
	auditLog := mongo.NewAuditRepository(db)
	if err := mongo.EnsureIndexes(ctx, authors, posts, auditLog); err != nil {
		return err
	}
	log.Info().Str("db", cfg.Mongo.Database).Str("redis", cfg.Redis.Addr).Msg("stores ready")

	// --- Auth primitives ---
	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := security.NewTokenManager(security.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.TokenIssuer,
	})
	if err != nil {
		return err
	}
	limiter := redis.NewLoginLimiter(rdb, redis.LimiterConfig{
		MaxAttempts:   cfg.Auth.LoginMaxAttempts,
		MaxIPAttempts: cfg.Auth.LoginMaxIPAttempts,
		Cooldown:      cfg.Auth.LoginCooldown,
	})
	states := redis.NewStateStore(rdb)

	if !cfg.GoogleEnabled() {
		log.Warn().Msg("GOOGLE_ID not set, Google sign-in will fail at the provider")
	}
	google := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.GoogleCallbackURL(),
	})

	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, auditLog, logger.Component("audit"))

	// --- Use cases ---
	authSvc := service.NewAuthService(authors, hasher, tokens, tokens, limiter, dispatcher, log)
	oauthSvc := service.NewOAuthService(authors, google, states, tokens, dispatcher, log)
	authorSvc := service.NewAuthorService(authors, hasher, dispatcher, log)
	postSvc := service.NewBlogPostService(posts, log)

	e := api.NewRouter(api.Deps{
		Auth:      authSvc,
		OAuth:     oauthSvc,
		Authors:   authorSvc,
		BlogPosts: postSvc,
		Health: handler.NewHealthHandler(map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		}),
		FrontendURL: cfg.FrontendURL,
		Logger:      log,
	})
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	// The audit workers outlive the HTTP server so events recorded by
	// in-flight requests are still flushed.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()

	auditDone := make(chan error, 1)
	go func() { auditDone <- dispatcher.Run(auditCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	err = g.Wait()

	stopAudit()
	if auditErr := <-auditDone; auditErr != nil {
		log.Error().Err(auditErr).Msg("audit dispatcher")
	}
	if dropped := dispatcher.Dropped(); dropped > 0 {
		log.Warn().Uint64("dropped", dropped).Msg("audit events dropped during run")
	}
	log.Info().Msg("bye")
	return err
}
