package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/logger"
	"github.com/sujalbistaa/ideas/internal/repo"
)

type LikeService interface {
	// ListLikes never fails: storage errors yield an empty list.
	ListLikes(ctx context.Context, ideaID string) []entity.Like
	// LikesFor is ListLikes for many ideas in one query.
	LikesFor(ctx context.Context, ideaIDs []string) map[string][]entity.Like
	CreateLike(ctx context.Context, ideaID string) (*entity.Like, error)
	// DeleteLike removes the most recent like of the idea and returns it,
	// or nil when the idea has none.
	DeleteLike(ctx context.Context, ideaID string) (*entity.Like, error)
}

type likeService struct {
	likes  repo.LikeRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewLikeService(likes repo.LikeRepository, logger *logger.Logger, opts ...Option) LikeService {
	o := buildOptions(opts)
	return &likeService{
		likes:  likes,
		logger: logger,
		now:    o.now,
	}
}

func (s *likeService) ListLikes(ctx context.Context, ideaID string) []entity.Like {
	if !validID(ideaID) {
		return []entity.Like{}
	}

	likes, err := s.likes.SelectByIdeaID(ctx, ideaID)
	if err != nil {
		s.logger.Warn("Listing likes for idea %s failed, returning none: %v", ideaID, err)
		return []entity.Like{}
	}
	return likes
}

func (s *likeService) LikesFor(ctx context.Context, ideaIDs []string) map[string][]entity.Like {
	valid := make([]string, 0, len(ideaIDs))
	for _, id := range ideaIDs {
		if validID(id) {
			valid = append(valid, id)
		}
	}

	grouped, err := s.likes.SelectByIdeaIDs(ctx, valid)
	if err != nil {
		s.logger.Warn("Listing likes for %d ideas failed, returning none: %v", len(valid), err)
		return map[string][]entity.Like{}
	}
	return grouped
}

func (s *likeService) CreateLike(ctx context.Context, ideaID string) (*entity.Like, error) {
	if !validID(ideaID) {
		return nil, ErrInvalidID
	}

	like := &entity.Like{
		ID:        uuid.New().String(),
		CreatedAt: stamp(s.now),
	}
	if err := s.likes.Insert(ctx, ideaID, like); err != nil {
		return nil, fmt.Errorf("failed to like idea %s: %w", ideaID, err)
	}
	return like, nil
}

func (s *likeService) DeleteLike(ctx context.Context, ideaID string) (*entity.Like, error) {
	likes := s.ListLikes(ctx, ideaID)
	if len(likes) == 0 {
		return nil, nil
	}

	latest := likes[0]
	if err := s.likes.DeleteByID(ctx, latest.ID); err != nil {
		return nil, fmt.Errorf("failed to remove like %s: %w", latest.ID, err)
	}
	return &latest, nil
}
