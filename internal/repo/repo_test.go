package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_course/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Course{}, &models.Enrollment{}, &models.Video{}, &models.WatchHistory{}))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, id string, videos int) []string {
	t.Helper()
	require.NoError(t, db.Create(&models.Course{ID: id, Title: "course " + id, CreatedAt: time.Now().UTC()}).Error)

	ids := make([]string, 0, videos)
	for i := 0; i < videos; i++ {
		v := models.Video{ID: uuid.NewString(), CourseID: id}
		require.NoError(t, db.Create(&v).Error)
		ids = append(ids, v.ID)
	}
	return ids
}

func TestListEnrollments_OrderedWithCourse(t *testing.T) {
	db := InitTestDB(t)
	r := &GormRepo{DB: db}
	user := uuid.NewString()
	other := uuid.NewString()

	seedCourse(t, db, "c1", 0)
	seedCourse(t, db, "c2", 0)
	seedCourse(t, db, "c3", 0)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Enrollment{UserID: user, CourseID: "c2", EnrolledAt: base}).Error)
	require.NoError(t, db.Create(&models.Enrollment{UserID: user, CourseID: "c1", EnrolledAt: base.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Enrollment{UserID: other, CourseID: "c3", EnrolledAt: base}).Error)

	rows, err := r.ListEnrollments(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "c2", rows[0].CourseID)
	require.NotNil(t, rows[0].Course)
	assert.Equal(t, "course c2", rows[0].Course.Title)
	assert.Equal(t, "c1", rows[1].CourseID)
}

func TestListEnrollments_Empty(t *testing.T) {
	db := InitTestDB(t)
	r := &GormRepo{DB: db}

	rows, err := r.ListEnrollments(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListEnrollments_MissingCourse(t *testing.T) {
	db := InitTestDB(t)
	r := &GormRepo{DB: db}
	user := uuid.NewString()

	require.NoError(t, db.Create(&models.Enrollment{UserID: user, CourseID: "ghost", EnrolledAt: time.Now().UTC()}).Error)

	_, err := r.ListEnrollments(context.Background(), user)
	require.ErrorIs(t, err, models.ErrMissingCourse)
}

func TestCountVideosAndCompleted(t *testing.T) {
	db := InitTestDB(t)
	r := &GormRepo{DB: db}
	ctx := context.Background()
	user := uuid.NewString()

	videos := seedCourse(t, db, "c1", 3)
	otherVideos := seedCourse(t, db, "c2", 1)

	require.NoError(t, db.Create(&models.WatchHistory{UserID: user, VideoID: videos[0], IsCompleted: true}).Error)
	require.NoError(t, db.Create(&models.WatchHistory{UserID: user, VideoID: videos[1], IsCompleted: false}).Error)
	require.NoError(t, db.Create(&models.WatchHistory{UserID: user, VideoID: otherVideos[0], IsCompleted: true}).Error)
	require.NoError(t, db.Create(&models.WatchHistory{UserID: uuid.NewString(), VideoID: videos[2], IsCompleted: true}).Error)

	total, err := r.CountVideos(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	done, err := r.CountCompleted(ctx, user, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, done)

	none, err := r.CountVideos(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestGetVideoAndEnrollment_NotFound(t *testing.T) {
	db := InitTestDB(t)
	r := &GormRepo{DB: db}
	ctx := context.Background()

	_, err := r.GetVideo(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetEnrollment(ctx, uuid.NewString(), "c1")
	require.ErrorIs(t, err, ErrNotFound)

	ids := seedCourse(t, db, "c1", 1)
	v, err := r.GetVideo(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "c1", v.CourseID)

	require.NoError(t, r.Ping(ctx))
}
