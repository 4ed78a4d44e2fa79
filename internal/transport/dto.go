package transport

import (
	"encoding/json"
	"time"
)

type CourseProgress struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	ThumbnailURL   *string    `json:"thumbnail_url"`
	IsPublished    bool       `json:"is_published"`
	CreatedAt      time.Time  `json:"created_at"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	VideoCount     int64      `json:"video_count"`
	CompletedCount int64      `json:"completed_count"`
	Progress       int        `json:"progress"`
}

type CoursesResponse struct {
	Courses []CourseProgress `json:"courses"`
}

type PlaybackResponse struct {
	VideoID     string    `json:"video_id"`
	CourseID    string    `json:"course_id"`
	PlaybackURL string    `json:"playback_url"`
	EmbedURL    string    `json:"embed_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type VideoInfoResponse struct {
	Video json.RawMessage `json:"video"`
}

type VideoListResponse struct {
	Videos json.RawMessage `json:"videos"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
