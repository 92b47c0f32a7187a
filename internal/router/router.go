package router // router wires routes, per-route validation and middleware order

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-post-service/internal/handler"
	"github.com/iliyamo/blog-post-service/internal/validate"
)

// Deps carries everything route registration needs. AuthMW gates protected
// groups; CacheMW and RateLimitMW may be pass-through middleware when Redis
// is unavailable.
type Deps struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
	Posts *handler.PostHandler

	AuthMW      echo.MiddlewareFunc
	CacheMW     echo.MiddlewareFunc
	RateLimitMW echo.MiddlewareFunc
	LoggerMW    echo.MiddlewareFunc
}

// Register wires every route. The per-request order is fixed: request logger
// -> rate limiter -> (cache on public reads) -> authentication where the
// route requires identity -> validation -> handler. Syntactic validation
// always completes before any ownership check runs.
func Register(e *echo.Echo, d Deps) {
	if d.LoggerMW != nil {
		e.Use(d.LoggerMW)
	}
	if d.RateLimitMW != nil {
		e.Use(d.RateLimitMW)
	}

	e.GET("/healthz", handler.Health)

	// Public credential endpoints.
	auth := e.Group("/api/auth")
	auth.POST("/register", d.Auth.Register, validate.Middleware(validate.Register()))
	auth.POST("/login", d.Auth.Login, validate.Middleware(validate.Login()))

	// Posts: reads are public, mutations require a verified identity.
	posts := e.Group("/api/posts")
	if d.CacheMW != nil {
		posts.GET("", d.Posts.ListPosts, d.CacheMW)
		posts.GET("/:id", d.Posts.GetPost, d.CacheMW)
	} else {
		posts.GET("", d.Posts.ListPosts)
		posts.GET("/:id", d.Posts.GetPost)
	}
	posts.POST("", d.Posts.CreatePost, d.AuthMW, validate.Middleware(validate.CreatePost()))
	posts.PUT("/:id", d.Posts.UpdatePost, d.AuthMW, validate.Middleware(validate.UpdatePost()))
	posts.DELETE("/:id", d.Posts.DeletePost, d.AuthMW)

	// Users: everything requires authentication; profile routes act on the
	// caller's own account.
	users := e.Group("/api/users", d.AuthMW)
	users.GET("/profile", d.Users.Profile)
	users.PUT("/profile", d.Users.UpdateProfile, validate.Middleware(validate.UpdateProfile()))
	users.DELETE("/profile", d.Users.DeleteProfile)
	users.GET("", d.Users.ListUsers)
	users.POST("", d.Users.CreateUser, validate.Middleware(validate.CreateUser()))
	users.GET("/:id", d.Users.GetUser)
	users.DELETE("/:id", d.Users.DeleteUser)
	users.GET("/:id/posts", d.Users.UserPosts)
}
