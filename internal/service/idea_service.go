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

// IdeaInput is what a client may set on a new idea.
type IdeaInput struct {
	Message string
	Image   string
}

type IdeaService interface {
	// ListIdeas returns up to limit ideas, newest first, without likes.
	// Storage errors yield an empty list.
	ListIdeas(ctx context.Context, limit int) []entity.Idea
	FindIdea(ctx context.Context, id string) (*entity.Idea, error)
	CreateIdea(ctx context.Context, input IdeaInput) (*entity.Idea, error)
	// DeleteIdea succeeds whether or not the idea existed; the bool reports
	// whether a row was removed.
	DeleteIdea(ctx context.Context, id string) (bool, error)
	// AttachLikes returns copies of ideas with their likes, in the same order.
	AttachLikes(ctx context.Context, ideas []entity.Idea) []entity.Idea
}

type ideaService struct {
	ideas  repo.IdeaRepository
	likes  LikeService
	logger *logger.Logger
	now    func() time.Time
}

func NewIdeaService(ideas repo.IdeaRepository, likes LikeService, logger *logger.Logger, opts ...Option) IdeaService {
	o := buildOptions(opts)
	return &ideaService{
		ideas:  ideas,
		likes:  likes,
		logger: logger,
		now:    o.now,
	}
}

func (s *ideaService) ListIdeas(ctx context.Context, limit int) []entity.Idea {
	ideas, err := s.ideas.SelectAll(ctx, limit)
	if err != nil {
		s.logger.Warn("Listing ideas failed, returning none: %v", err)
		return []entity.Idea{}
	}
	return ideas
}

func (s *ideaService) FindIdea(ctx context.Context, id string) (*entity.Idea, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	idea, err := s.ideas.SelectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find idea %s: %w", id, err)
	}
	if idea == nil {
		return nil, ErrNotFound
	}
	return idea, nil
}

func (s *ideaService) CreateIdea(ctx context.Context, input IdeaInput) (*entity.Idea, error) {
	if input.Message == "" {
		return nil, ErrMissingMessage
	}

	idea := &entity.Idea{
		ID:        uuid.New().String(),
		CreatedAt: stamp(s.now),
		Message:   input.Message,
		Image:     input.Image,
		Likes:     []entity.Like{},
	}
	if err := s.ideas.Insert(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}
	return idea, nil
}

func (s *ideaService) DeleteIdea(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	deleted, err := s.ideas.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete idea %s: %w", id, err)
	}
	return deleted, nil
}

func (s *ideaService) AttachLikes(ctx context.Context, ideas []entity.Idea) []entity.Idea {
	ids := make([]string, len(ideas))
	for i := range ideas {
		ids[i] = ideas[i].ID
	}

	grouped := s.likes.LikesFor(ctx, ids)

	composed := make([]entity.Idea, len(ideas))
	for i := range ideas {
		composed[i] = ideas[i].WithLikes(grouped[ideas[i].ID])
	}
	return composed
}
