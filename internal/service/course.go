package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/online_course/internal/models"
	"github.com/Skotchmaster/online_course/internal/transport"
)

const maxConcurrentCounts = 8

type CourseRepo interface {
	ListEnrollments(ctx context.Context, userID string) ([]models.EnrollmentWithCourse, error)
	CountVideos(ctx context.Context, courseID string) (int64, error)
	CountCompleted(ctx context.Context, userID, courseID string) (int64, error)
}

type CourseService struct {
	Repo CourseRepo
}

// Progress is round(100*completed/total) with halves rounded up, and 0 for
// a course without videos.
func Progress(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	return int((200*completed + total) / (2 * total))
}

// ListCourses returns the user's enrolled courses with progress. Counts for
// every course run concurrently; the first failure fails the whole list.
func (s *CourseService) ListCourses(ctx context.Context, userID string) ([]transport.CourseProgress, error) {
	enrollments, err := s.Repo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CourseProgress, len(enrollments))
	if len(enrollments) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)

	for i, e := range enrollments {
		out[i] = courseProgress(e)
		courseID := e.CourseID

		g.Go(func() error {
			n, err := s.Repo.CountVideos(gctx, courseID)
			if err != nil {
				return err
			}
			out[i].VideoCount = n
			return nil
		})
		g.Go(func() error {
			n, err := s.Repo.CountCompleted(gctx, userID, courseID)
			if err != nil {
				return err
			}
			out[i].CompletedCount = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Progress = Progress(out[i].CompletedCount, out[i].VideoCount)
	}
	return out, nil
}

func courseProgress(e models.EnrollmentWithCourse) transport.CourseProgress {
	c := e.Course
	return transport.CourseProgress{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		IsPublished:  c.IsPublished,
		CreatedAt:    c.CreatedAt,
		EnrolledAt:   e.EnrolledAt,
		ExpiresAt:    e.ExpiresAt,
	}
}
