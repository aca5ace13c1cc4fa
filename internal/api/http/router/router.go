package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/authkit/server/internal/api/http/handler"
	"github.com/authkit/server/internal/api/http/middleware"
	"github.com/authkit/server/internal/logger"
)

// New assembles the gin engine with all routes and middleware. Everything
// under /auth is public; /me sits behind the authenticate middleware.
func New(
	auth *handler.Auth,
	health *handler.Health,
	authenticate *middleware.Authenticate,
	log *logger.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/", health.Status)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/refresh", auth.Refresh)
	}

	r.GET("/me", authenticate.Handle, auth.Me)

	return r
}
