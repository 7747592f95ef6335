package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/sujalbistaa/ideas/internal/db"
	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/models"
)

type LikeRepository interface {
	Insert(ctx context.Context, ideaID string, like *entity.Like) error
	// SelectByIdeaID lists an idea's likes, newest first.
	SelectByIdeaID(ctx context.Context, ideaID string) ([]entity.Like, error)
	// SelectByIdeaIDs is the batched form of SelectByIdeaID. Ideas without
	// likes are absent from the map.
	SelectByIdeaIDs(ctx context.Context, ideaIDs []string) (map[string][]entity.Like, error)
	DeleteByID(ctx context.Context, id string) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(database *gorm.DB) LikeRepository {
	return &likeRepository{db: database}
}

func (r *likeRepository) Insert(ctx context.Context, ideaID string, like *entity.Like) error {
	if err := db.Conn(ctx, r.db).Create(ToLikeModel(ideaID, like)).Error; err != nil {
		return storageError("insert like", err)
	}
	return nil
}

func (r *likeRepository) SelectByIdeaID(ctx context.Context, ideaID string) ([]entity.Like, error) {
	var rows []models.LikeModel
	err := db.Conn(ctx, r.db).
		Where("idea_id = ?", ideaID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("select likes", err)
	}

	likes := make([]entity.Like, 0, len(rows))
	for i := range rows {
		likes = append(likes, ToLikeEntity(&rows[i]))
	}
	return likes, nil
}

func (r *likeRepository) SelectByIdeaIDs(ctx context.Context, ideaIDs []string) (map[string][]entity.Like, error) {
	grouped := make(map[string][]entity.Like, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return grouped, nil
	}

	var rows []models.LikeModel
	err := db.Conn(ctx, r.db).
		Where("idea_id IN ?", ideaIDs).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("select likes", err)
	}

	// rows are globally newest first, so each group is too.
	for i := range rows {
		grouped[rows[i].IdeaID] = append(grouped[rows[i].IdeaID], ToLikeEntity(&rows[i]))
	}
	return grouped, nil
}

func (r *likeRepository) DeleteByID(ctx context.Context, id string) error {
	if err := db.Conn(ctx, r.db).Where("id = ?", id).Delete(&models.LikeModel{}).Error; err != nil {
		return storageError("delete like", err)
	}
	return nil
}
