package repo

import (
	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/models"
)

func ToIdeaEntity(m *models.IdeaModel) *entity.Idea {
	if m == nil {
		return nil
	}

	return &entity.Idea{
		ID:        m.ID,
		CreatedAt: m.CreatedAt.UTC(),
		Message:   m.Message,
		Image:     m.Image,
		Likes:     []entity.Like{},
	}
}

func ToIdeaModel(e *entity.Idea) *models.IdeaModel {
	if e == nil {
		return nil
	}

	return &models.IdeaModel{
		ID:        e.ID,
		CreatedAt: e.CreatedAt.UTC(),
		Message:   e.Message,
		Image:     e.Image,
	}
}

func ToLikeEntity(m *models.LikeModel) entity.Like {
	if m == nil {
		return entity.Like{}
	}

	return entity.Like{
		ID:        m.ID,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func ToLikeModel(ideaID string, e *entity.Like) *models.LikeModel {
	if e == nil {
		return nil
	}

	return &models.LikeModel{
		ID:        e.ID,
		CreatedAt: e.CreatedAt.UTC(),
		IdeaID:    ideaID,
	}
}
