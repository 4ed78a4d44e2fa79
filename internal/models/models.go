package models

import (
	"errors"
	"time"
)

type Course struct {
	ID           string    `gorm:"primaryKey"            json:"id"`
	Title        string    `gorm:"not null"              json:"title"`
	Description  *string   `                             json:"description"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url"  json:"thumbnail_url"`
	IsPublished  bool      `gorm:"default:false"         json:"is_published"`
	CreatedAt    time.Time `                             json:"created_at"`
}

func (Course) TableName() string { return "courses" }

type Enrollment struct {
	UserID     string     `gorm:"primaryKey"  json:"user_id"`
	CourseID   string     `gorm:"primaryKey"  json:"course_id"`
	EnrolledAt time.Time  `gorm:"not null"    json:"enrolled_at"`
	ExpiresAt  *time.Time `                   json:"expires_at"`
}

func (Enrollment) TableName() string { return "enrollments" }

// Active reports whether the enrollment grants access at t.
func (e Enrollment) Active(t time.Time) bool {
	return e.ExpiresAt == nil || t.Before(*e.ExpiresAt)
}

type Video struct {
	ID       string `gorm:"primaryKey"       json:"id"`
	CourseID string `gorm:"index;not null"   json:"course_id"`
}

func (Video) TableName() string { return "videos" }

type WatchHistory struct {
	UserID      string `gorm:"primaryKey"     json:"user_id"`
	VideoID     string `gorm:"primaryKey"     json:"video_id"`
	IsCompleted bool   `gorm:"default:false"  json:"is_completed"`
}

func (WatchHistory) TableName() string { return "watch_history" }

// EnrollmentWithCourse is one row of enrollments joined with courses.
type EnrollmentWithCourse struct {
	Enrollment
	Course *Course `gorm:"foreignKey:CourseID;references:ID"`
}

var ErrMissingCourse = errors.New("enrollment row without course")

// Validate rejects join rows the database returned without a course.
func (e EnrollmentWithCourse) Validate() error {
	if e.Course == nil || e.Course.ID == "" {
		return ErrMissingCourse
	}
	if e.Course.ID != e.CourseID {
		return errors.New("enrollment course mismatch")
	}
	return nil
}
