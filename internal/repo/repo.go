package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/online_course/internal/models"
	pkgdb "github.com/Skotchmaster/online_course/pkg/db"
)

type GormRepo struct {
	DB *gorm.DB
}

var ErrNotFound = errors.New("not found")

// ListEnrollments returns the caller's enrollments with their course. Row
// level security on the managed database scopes the rows as well; the
// user_id filter keeps the query correct without it.
func (r *GormRepo) ListEnrollments(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error) {
	var rows []models.EnrollmentWithCourse
	if err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at ASC").
		Order("course_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, fmt.Errorf("enrollment %s/%s: %w", rows[i].UserID, rows[i].CourseID, err)
		}
	}
	return rows, nil
}

func (r *GormRepo) CountVideos(ctx context.Context, courseID string) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Video{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

// CountCompleted counts the user's completed watch_history rows for videos
// of the course in one statement.
func (r *GormRepo) CountCompleted(ctx context.Context, userID, courseID string) (int64, error) {
	tx := r.DB.WithContext(ctx)
	videoIDs := tx.Model(&models.Video{}).Select("id").Where("course_id = ?", courseID)

	var n int64
	if err := tx.
		Model(&models.WatchHistory{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Where("video_id IN (?)", videoIDs).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return n, nil
}

func (r *GormRepo) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	var v models.Video
	if err := r.DB.WithContext(ctx).Where("id = ?", videoID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

func (r *GormRepo) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &e, nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return pkgdb.Ping(ctx, r.DB)
}
