package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"studysmarter/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.StudyRoom{}, &models.Post{}, &models.Comment{}, &models.Media{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{Username: "David", Email: "david@myemail.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestStudyRoomRepository_CreateGetList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudyRoomRepository(db)
	ctx := context.Background()
	creator := seedUser(t, db)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	desc := "calculus"
	room := &models.StudyRoom{Name: "Math", Description: &desc, Capacity: 10, CreatorID: creator.ID}
	require.NoError(t, repo.Create(ctx, room))
	require.NotZero(t, room.ID)

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "calculus", *got.Description)

	_, err = repo.GetByID(ctx, room.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStudyRoomRepository_CapacityCheckConstraint(t *testing.T) {
	db := setupTestDB(t)
	creator := seedUser(t, db)

	err := NewStudyRoomRepository(db).Create(context.Background(),
		&models.StudyRoom{Name: "Zero", Capacity: 0, CreatorID: creator.ID})
	assert.Error(t, err)
}

func TestPostCommentMediaRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	creator := seedUser(t, db)

	post := &models.Post{Content: "hello", CreatorID: creator.ID}
	require.NoError(t, NewPostRepository(db).Create(ctx, post))
	require.NotZero(t, post.ID)
	assert.Nil(t, post.RoomID)

	comment := &models.Comment{PostID: post.ID, CreatorID: creator.ID, Content: "nice"}
	require.NoError(t, NewCommentRepository(db).Create(ctx, comment))
	gotComment, err := NewCommentRepository(db).GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, gotComment.PostID)

	media := &models.Media{Type: models.MediaTypeImage, FilePath: "/uploads/a.png", PostID: &post.ID}
	require.NoError(t, NewMediaRepository(db).Create(ctx, media))
	gotMedia, err := NewMediaRepository(db).GetByID(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, gotMedia.Type)
	require.NotNil(t, gotMedia.PostID)
	assert.Equal(t, post.ID, *gotMedia.PostID)

	_, err = NewPostRepository(db).GetByID(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmailOnSQLite(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db)

	err := NewUserRepository(db).Create(context.Background(),
		&models.User{Username: "Other", Email: "david@myemail.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := users.Create(ctx, &models.User{Username: "A", Email: "a@example.com", Password: "h"}); err != nil {
			return err
		}
		// Reads through the same ctx see the uncommitted row.
		n, err := users.Count(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), n)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactor_Commits(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	users := NewUserRepository(db)
	rooms := NewStudyRoomRepository(db)
	ctx := context.Background()

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		u := &models.User{Username: "A", Email: "a@example.com", Password: "h"}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return rooms.Create(ctx, &models.StudyRoom{Name: "R", Capacity: 2, CreatorID: u.ID})
	})
	require.NoError(t, err)

	list, err := rooms.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStudyRoomRepository_ListQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStudyRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "study_rooms" ORDER BY room_id`)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "name", "capacity", "creator_id"}).
			AddRow(3, "Physics", 5, 1))

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, uint(3), rooms[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."post_id" = $1 ORDER BY "posts"."post_id" LIMIT $2`)).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "content", "creator_id"}).AddRow(5, "hi", 1))

	post, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "hi", post.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}
