package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/repo"
)

// MockIdeaRepository is a mock implementation of repo.IdeaRepository
type MockIdeaRepository struct {
	mock.Mock
}

func (m *MockIdeaRepository) Insert(ctx context.Context, idea *entity.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockIdeaRepository) SelectByID(ctx context.Context, id string) (*entity.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Idea), args.Error(1)
}

func (m *MockIdeaRepository) SelectAll(ctx context.Context, limit int) ([]entity.Idea, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Idea), args.Error(1)
}

func (m *MockIdeaRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockLikeRepository is a mock implementation of repo.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Insert(ctx context.Context, ideaID string, like *entity.Like) error {
	args := m.Called(ctx, ideaID, like)
	return args.Error(0)
}

func (m *MockLikeRepository) SelectByIdeaID(ctx context.Context, ideaID string) ([]entity.Like, error) {
	args := m.Called(ctx, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Like), args.Error(1)
}

func (m *MockLikeRepository) SelectByIdeaIDs(ctx context.Context, ideaIDs []string) (map[string][]entity.Like, error) {
	args := m.Called(ctx, ideaIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]entity.Like), args.Error(1)
}

func (m *MockLikeRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	_ repo.IdeaRepository = (*MockIdeaRepository)(nil)
	_ repo.LikeRepository = (*MockLikeRepository)(nil)
)
