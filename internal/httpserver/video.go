package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/internal/events"
	"github.com/Skotchmaster/online_course/internal/middleware"
	"github.com/Skotchmaster/online_course/internal/service"
	"github.com/Skotchmaster/online_course/internal/stream"
	"github.com/Skotchmaster/online_course/internal/transport"
	"github.com/Skotchmaster/online_course/internal/util"
	"github.com/Skotchmaster/online_course/pkg/logging"
)

type VideoService interface {
	Playback(ctx context.Context, req service.PlaybackRequest) (*transport.PlaybackResponse, error)
	Info(ctx context.Context, userID, videoID string) (json.RawMessage, error)
	List(ctx context.Context) (json.RawMessage, error)
}

type VideoHTTP struct {
	Svc    VideoService
	Events events.Publisher
}

func (h *VideoHTTP) GetPlayback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.get_playback")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: msgAuthRequired})
	}

	req := service.PlaybackRequest{
		UserID:         user.ID,
		VideoID:        c.Param("id"),
		ExpiresInHours: util.ParseIntDefault(c.QueryParam("hours"), stream.DefaultExpiresInHours),
		Downloadable:   util.ParseBoolDefault(c.QueryParam("downloadable"), false),
	}

	res, err := h.Svc.Playback(ctx, req)
	if err != nil {
		return videoError(c, l, "get_playback_failed", msgPlaybackFailed, err)
	}

	publish(ctx, h.Events, events.Event{
		Type:   events.TypePlaybackIssued,
		UserID: user.ID,
		Data: map[string]any{
			"videoID":   res.VideoID,
			"courseID":  res.CourseID,
			"expiresAt": res.ExpiresAt,
		},
	})

	l.Info("get_playback_success", "video_id", res.VideoID)
	return c.JSON(http.StatusOK, res)
}

func (h *VideoHTTP) GetInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.get_info")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: msgAuthRequired})
	}

	info, err := h.Svc.Info(ctx, user.ID, c.Param("id"))
	if err != nil {
		return videoError(c, l, "get_video_info_failed", msgVideoInfoFailed, err)
	}
	return c.JSON(http.StatusOK, transport.VideoInfoResponse{Video: info})
}

func (h *VideoHTTP) ListVideos(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "video.list_videos")

	if _, ok := middleware.UserFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: msgAuthRequired})
	}

	videos, err := h.Svc.List(ctx)
	if err != nil {
		return videoError(c, l, "list_videos_failed", msgVideoListFailed, err)
	}
	return c.JSON(http.StatusOK, transport.VideoListResponse{Videos: videos})
}

// videoError maps service and stream errors to a JSON error response.
func videoError(c echo.Context, l *slog.Logger, event, fallback string, err error) error {
	var (
		cfgErr   *stream.ConfigError
		fetchErr *stream.FetchError
	)
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, stream.ErrInvalidVideo):
		l.Warn(event, "status", 400, "reason", "invalid request", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: msgInvalidRequest})
	case errors.Is(err, service.ErrVideoNotFound):
		l.Warn(event, "status", 404, "reason", "video not found", "error", err)
		return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: msgVideoNotFound})
	case errors.Is(err, service.ErrNotEnrolled):
		l.Warn(event, "status", 403, "reason", "not enrolled", "error", err)
		return c.JSON(http.StatusForbidden, transport.ErrorResponse{Error: msgNotEnrolled})
	case errors.As(err, &cfgErr):
		l.Error(event, "status", 500, "reason", "stream not configured", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: cfgErr.Message})
	case errors.As(err, &fetchErr):
		l.Error(event, "status", 500, "reason", "stream api rejected", "upstream_status", fetchErr.Status, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: fetchErr.Message})
	default:
		l.Error(event, "status", 500, "reason", "unexpected", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: fallback})
	}
}
