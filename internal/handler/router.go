package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/modushop/backend/internal/service"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Log            *logrus.Logger
	Auth           *AuthHandler
	AuthService    *service.AuthService
	Users          *UserHandler
	Products       *ProductHandler
	Categories     *CategoryHandler
	Orders         *OrderHandler
	Coupons        *CouponHandler
	Posts          *PostHandler
	Advertisements *AdvertisementHandler
	Health         *HealthHandler
	Maintenance    *MaintenanceHandler
	AllowedOrigins []string
}

// NewRouter wires every route. Three tiers: public, authenticated, and admin.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(RecoveryMiddleware(deps.Log))
	r.Use(CORSMiddleware(deps.AllowedOrigins, true))

	r.GET("/", deps.Health.Root)
	r.GET("/ping", deps.Health.Ping)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.GET("/captcha", deps.Auth.Captcha)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", deps.Auth.Logout)
		auth.GET("/me", AuthMiddleware(deps.AuthService), deps.Auth.Me)
	}

	// public storefront reads
	api.GET("/products", deps.Products.List)
	api.GET("/products/:id", deps.Products.Get)
	api.GET("/categories", deps.Categories.List)
	api.GET("/categories/tree", deps.Categories.Tree)
	api.GET("/posts", deps.Posts.List)
	api.GET("/posts/:id", deps.Posts.Get)
	api.GET("/advertisements", deps.Advertisements.ListActive)

	api.POST("/maintenance/cleanup", deps.Maintenance.Cleanup)

	authed := api.Group("")
	authed.Use(AuthMiddleware(deps.AuthService))
	{
		authed.PUT("/users/me", deps.Users.UpdateProfile)
		authed.PUT("/users/me/password", deps.Users.ChangePassword)

		authed.POST("/orders", deps.Orders.Create)
		authed.GET("/orders", deps.Orders.List)
		authed.GET("/orders/:id", deps.Orders.Get)
		authed.POST("/orders/:id/cancel", deps.Orders.Cancel)
	}

	admin := api.Group("/admin")
	admin.Use(AuthMiddleware(deps.AuthService), RequireAdmin())
	{
		admin.GET("/users", deps.Users.List)
		admin.PUT("/users/:id/roles", deps.Users.SetRoles)

		admin.POST("/products", deps.Products.Create)
		admin.PUT("/products/:id", deps.Products.Update)
		admin.DELETE("/products/:id", deps.Products.Delete)

		admin.POST("/categories", deps.Categories.Create)
		admin.PUT("/categories/:id", deps.Categories.Update)
		admin.DELETE("/categories/:id", deps.Categories.Delete)

		admin.GET("/orders", deps.Orders.ListAll)
		admin.PUT("/orders/:id/status", deps.Orders.SetStatus)

		admin.GET("/coupons", deps.Coupons.List)
		admin.POST("/coupons", deps.Coupons.Create)
		admin.PUT("/coupons/:id", deps.Coupons.Update)
		admin.DELETE("/coupons/:id", deps.Coupons.Delete)

		admin.GET("/posts", deps.Posts.ListAll)
		admin.GET("/posts/:id", deps.Posts.GetAny)
		admin.POST("/posts", deps.Posts.Create)
		admin.PUT("/posts/:id", deps.Posts.Update)
		admin.DELETE("/posts/:id", deps.Posts.Delete)

		admin.GET("/advertisements", deps.Advertisements.List)
		admin.POST("/advertisements", deps.Advertisements.Create)
		admin.PUT("/advertisements/:id", deps.Advertisements.Update)
		admin.DELETE("/advertisements/:id", deps.Advertisements.Delete)
	}

	return r
}
