package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/internal/middleware"
	"github.com/Skotchmaster/online_course/internal/transport"
	"github.com/Skotchmaster/online_course/pkg/logging"
)

type CourseLister interface {
	ListCourses(ctx context.Context, userID string) ([]transport.CourseProgress, error)
}

type CourseHTTP struct {
	Svc CourseLister
}

func (h *CourseHTTP) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list_courses")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		l.Warn("list_courses_failed", "status", 401, "reason", "no user")
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: msgAuthRequired})
	}

	courses, err := h.Svc.ListCourses(ctx, user.ID)
	if err != nil {
		l.Error("list_courses_failed", "status", 500, "reason", "cannot load enrollments", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: msgCoursesFailed})
	}

	l.Info("list_courses_success", "count", len(courses))
	return c.JSON(http.StatusOK, transport.CoursesResponse{Courses: courses})
}
