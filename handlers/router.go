package handlers

import (
	"github.com/gin-gonic/gin"

	"shorturl/auth"
	"shorturl/repository"
	"shorturl/services"
)

type Deps struct {
	Tokens *auth.TokenService
	Users  repository.Users

	UserService  *services.UserService
	LinkService  *services.LinkService
	StatsService *services.StatsService
}

func NewRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	authH := NewAuthHandler(deps.UserService)
	linkH := NewLinkHandler(deps.LinkService)
	adminH := NewAdminHandler(deps.UserService, deps.StatsService)
	redirectH := NewRedirectHandler(deps.LinkService)

	api := router.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	authed := api.Group("")
	authed.Use(auth.Middleware(deps.Tokens, deps.Users))
	{
		authed.GET("/auth/me", authH.Me)

		authed.GET("/shorten", linkH.List)
		authed.POST("/shorten", linkH.Create)
		authed.GET("/shorten/:id", linkH.Get)
		authed.DELETE("/shorten/:id", linkH.Delete)
		authed.GET("/stats/:code", linkH.Stats)

		admin := authed.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.GET("/users", adminH.ListUsers)
			admin.PUT("/users/:id/role", adminH.UpdateRole)
			admin.GET("/admin/stats", adminH.Stats)
		}
	}

	// Public redirect, matched after the /api prefix.
	router.GET("/:code", redirectH.Redirect)

	return router
}
