package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/pawfinder/backend/internal/handlers"
	authmw "github.com/pawfinder/backend/internal/middleware/auth"
)

type Deps struct {
	Gateway        *authmw.Gateway
	AuthHandler    *handlers.AuthHandler
	PostHandler    *handlers.PostHandler
	CommentHandler *handlers.CommentHandler
	UserHandler    *handlers.UserHandler
	FileHandler    *handlers.FileHandler
	SearchHandler  *handlers.SearchHandler
	UploadDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/refresh-token", d.AuthHandler.Refresh)

	post := e.Group("/post")
	post.GET("", d.PostHandler.GetPosts)
	post.GET("/:id", d.PostHandler.GetPost)
	post.POST("", d.PostHandler.CreatePost, d.Gateway.RequireLogin)
	post.PUT("/:id", d.PostHandler.UpdatePost, d.Gateway.RequireLogin)
	post.DELETE("/:id", d.PostHandler.DeletePost, d.Gateway.RequireLogin)

	comment := e.Group("/comment")
	comment.GET("", d.CommentHandler.GetComments)
	comment.GET("/:id", d.CommentHandler.GetComment)
	comment.GET("/post/:postId", d.CommentHandler.GetCommentsByPost)
	comment.POST("", d.CommentHandler.CreateComment, d.Gateway.RequireLogin)
	comment.PUT("/:id", d.CommentHandler.UpdateComment, d.Gateway.RequireLogin)
	comment.DELETE("/:id", d.CommentHandler.DeleteComment, d.Gateway.RequireLogin)

	user := e.Group("/user")
	user.GET("/:id", d.UserHandler.GetUser)
	user.PUT("/:id", d.UserHandler.UpdateUser, d.Gateway.RequireLogin)

	e.POST("/file", d.FileHandler.Upload)
	e.Static("/uploads", d.UploadDir)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}
}
