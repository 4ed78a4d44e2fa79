package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/internal/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler   *AuthHTTP
	CourseHandler *CourseHTTP
	VideoHandler  *VideoHTTP
	Session       *middleware.SessionMiddleware
	DB            Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB != nil {
			if err := d.DB.Ping(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	// Session refresh runs for every route, including unmatched page paths
	// like /login and /courses that only need the redirect decision.
	e.Use(d.Session.Handle)

	api := e.Group("/api")

	api.POST("/auth/logout", d.AuthHandler.LogOut)
	api.GET("/courses", d.CourseHandler.ListCourses)

	videos := api.Group("/videos")
	videos.GET("", d.VideoHandler.ListVideos, middleware.RequireRole(middleware.RoleAdmin))
	videos.GET("/:id", d.VideoHandler.GetPlayback)
	videos.GET("/:id/info", d.VideoHandler.GetInfo)
}
