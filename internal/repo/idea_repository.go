package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sujalbistaa/ideas/internal/db"
	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/models"
)

type IdeaRepository interface {
	Insert(ctx context.Context, idea *entity.Idea) error
	// SelectByID returns nil, nil when no row matches.
	SelectByID(ctx context.Context, id string) (*entity.Idea, error)
	SelectAll(ctx context.Context, limit int) ([]entity.Idea, error)
	// DeleteByID reports whether a row was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type ideaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(database *gorm.DB) IdeaRepository {
	return &ideaRepository{db: database}
}

func (r *ideaRepository) Insert(ctx context.Context, idea *entity.Idea) error {
	if err := db.Conn(ctx, r.db).Omit("Likes").Create(ToIdeaModel(idea)).Error; err != nil {
		return storageError("insert idea", err)
	}
	return nil
}

func (r *ideaRepository) SelectByID(ctx context.Context, id string) (*entity.Idea, error) {
	var row models.IdeaModel
	err := db.Conn(ctx, r.db).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("select idea", err)
	}
	return ToIdeaEntity(&row), nil
}

func (r *ideaRepository) SelectAll(ctx context.Context, limit int) ([]entity.Idea, error) {
	var rows []models.IdeaModel
	if err := db.Conn(ctx, r.db).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, storageError("select ideas", err)
	}

	ideas := make([]entity.Idea, 0, len(rows))
	for i := range rows {
		ideas = append(ideas, *ToIdeaEntity(&rows[i]))
	}
	return ideas, nil
}

func (r *ideaRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res := db.Conn(ctx, r.db).Where("id = ?", id).Delete(&models.IdeaModel{})
	if res.Error != nil {
		return false, storageError("delete idea", res.Error)
	}
	return res.RowsAffected > 0, nil
}
