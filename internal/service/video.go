package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Skotchmaster/online_course/internal/models"
	"github.com/Skotchmaster/online_course/internal/repo"
	"github.com/Skotchmaster/online_course/internal/stream"
	"github.com/Skotchmaster/online_course/internal/transport"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrNotEnrolled   = errors.New("not enrolled in course")
	ErrValidation    = errors.New("validation error")
)

type VideoRepo interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
}

type URLSigner interface {
	SignedURL(opts stream.SignedURLOptions) (string, error)
	EmbedURL(opts stream.SignedURLOptions) (string, error)
	ExpiresAt(opts stream.SignedURLOptions) time.Time
}

type MetadataClient interface {
	GetVideo(ctx context.Context, videoID string) (json.RawMessage, error)
	ListVideos(ctx context.Context) (json.RawMessage, error)
}

type VideoService struct {
	Repo   VideoRepo
	Signer URLSigner
	Meta   MetadataClient
	Now    func() time.Time
}

type PlaybackRequest struct {
	UserID         string
	VideoID        string
	ExpiresInHours int
	Downloadable   bool
}

func (s *VideoService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Authorize loads the video and checks the user holds a live enrollment in
// its course.
func (s *VideoService) Authorize(ctx context.Context, userID, videoID string) (*models.Video, error) {
	if videoID == "" {
		return nil, ErrValidation
	}
	v, err := s.Repo.GetVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	e, err := s.Repo.GetEnrollment(ctx, userID, v.CourseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	if !e.Active(s.now()) {
		return nil, ErrNotEnrolled
	}
	return v, nil
}

func (s *VideoService) Playback(ctx context.Context, req PlaybackRequest) (*transport.PlaybackResponse, error) {
	if req.ExpiresInHours < 1 || req.ExpiresInHours > 24 {
		return nil, ErrValidation
	}

	v, err := s.Authorize(ctx, req.UserID, req.VideoID)
	if err != nil {
		return nil, err
	}

	opts := stream.SignedURLOptions{
		VideoID:        v.ID,
		ExpiresInHours: req.ExpiresInHours,
		Downloadable:   req.Downloadable,
		IssuedAt:       s.now(),
	}

	playbackURL, err := s.Signer.SignedURL(opts)
	if err != nil {
		return nil, err
	}
	embedURL, err := s.Signer.EmbedURL(opts)
	if err != nil {
		return nil, err
	}

	return &transport.PlaybackResponse{
		VideoID:     v.ID,
		CourseID:    v.CourseID,
		PlaybackURL: playbackURL,
		EmbedURL:    embedURL,
		ExpiresAt:   s.Signer.ExpiresAt(opts).UTC(),
	}, nil
}

func (s *VideoService) Info(ctx context.Context, userID, videoID string) (json.RawMessage, error) {
	if _, err := s.Authorize(ctx, userID, videoID); err != nil {
		return nil, err
	}
	return s.Meta.GetVideo(ctx, videoID)
}

func (s *VideoService) List(ctx context.Context) (json.RawMessage, error) {
	return s.Meta.ListVideos(ctx)
}
