package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/modushop/backend/internal/cache"
	"github.com/modushop/backend/internal/config"
	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/handler"
	"github.com/modushop/backend/internal/service"
)

// @title ModuShop API
// @version 1.0
// @description Commerce backend: catalog, orders, content and authentication with progressive login lockout.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.RequirePort(); err != nil {
		log.WithError(err).Fatal("invalid server config")
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.WithError(err).Warn("sentry init failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.WithError(err).Fatal("postgres connect failed")
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("redis connect failed")
	}
	defer rdb.Close()

	tokens, err := service.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("token issuer config invalid")
	}

	attempts := cache.NewAttemptCache(rdb, cfg.Lockout.CounterTTL)
	captchaStore := cache.NewCaptchaCache(rdb)

	throttle := service.NewThrottler(pg, attempts, cfg.Lockout.AttemptThreshold)
	captcha := service.NewCaptchaService(captchaStore, cfg.Captcha.TTL)

	authService, err := service.NewAuthService(pg, tokens, throttle, captcha, cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("auth service config invalid")
	}

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.WithError(err).Fatal("admin bootstrap failed")
		}
	}

	userService := service.NewUserService(pg)
	productService := service.NewProductService(pg)
	categoryService := service.NewCategoryService(pg)
	couponService := service.NewCouponService(pg)
	orderService := service.NewOrderService(pg, couponService)
	postService := service.NewPostService(pg)
	adService := service.NewAdvertisementService(pg)

	r := handler.NewRouter(handler.RouterDeps{
		Log:            log,
		Auth:           handler.NewAuthHandler(authService, userService),
		AuthService:    authService,
		Users:          handler.NewUserHandler(userService),
		Products:       handler.NewProductHandler(productService),
		Categories:     handler.NewCategoryHandler(categoryService),
		Orders:         handler.NewOrderHandler(orderService),
		Coupons:        handler.NewCouponHandler(couponService),
		Posts:          handler.NewPostHandler(postService),
		Advertisements: handler.NewAdvertisementHandler(adService),
		Health:         handler.NewHealthHandler(),
		Maintenance:    handler.NewMaintenanceHandler(pg, cfg.Server.CronSecret, cfg.Lockout.Retention),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	log.WithField("port", cfg.Server.Port).Info("server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
