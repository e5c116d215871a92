package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studysmarter/internal/models"
	"studysmarter/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// passthroughTx runs fn directly and reports how often it was used.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	listFn       func(context.Context) ([]models.User, error)
	countFn      func(context.Context) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) { return s.listFn(ctx) }
func (s *userRepoStub) Count(ctx context.Context) (int64, error)        { return s.countFn(ctx) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:       func(_ context.Context) ([]models.User, error) { return nil, nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// roomRepoMock is a testify mock for repository.StudyRoomRepository.
type roomRepoMock struct {
	mock.Mock
}

func (m *roomRepoMock) Create(ctx context.Context, room *models.StudyRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *roomRepoMock) GetByID(ctx context.Context, id uint) (*models.StudyRoom, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.StudyRoom)
	return room, args.Error(1)
}

func (m *roomRepoMock) List(ctx context.Context) ([]models.StudyRoom, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]models.StudyRoom)
	return rooms, args.Error(1)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 10
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
	}
}

type commentRepoStub struct {
	createFn func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(context.Context, uint) (*models.Comment, error) {
	return nil, repository.ErrNotFound
}

type mediaRepoStub struct {
	createFn func(context.Context, *models.Media) error
}

func (s *mediaRepoStub) Create(ctx context.Context, m *models.Media) error { return s.createFn(ctx, m) }
func (s *mediaRepoStub) GetByID(context.Context, uint) (*models.Media, error) {
	return nil, repository.ErrNotFound
}

// memStore is a revocation.Store recording revoked JTIs.
type memStore struct {
	revoked map[string]time.Time
	err     error
}

func (s *memStore) Revoke(_ context.Context, jti string, exp time.Time) error {
	if s.err != nil {
		return s.err
	}
	if s.revoked == nil {
		s.revoked = map[string]time.Time{}
	}
	s.revoked[jti] = exp
	return nil
}

func (s *memStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, s.err
}

func (s *memStore) Backend() string { return "test" }

type issuerStub struct {
	err error
}

func (s issuerStub) Issue(userID uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-user", nil
}

var errDB = errors.New("db down")

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
