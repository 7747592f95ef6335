package models

import (
	"time"
)

// IdeaModel is a row of the ideas table. Likes are never loaded through it;
// the association only exists so AutoMigrate creates the foreign key.
type IdeaModel struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time   `gorm:"type:timestamp;not null;index"`
	Message   string      `gorm:"type:text;not null"`
	Image     string      `gorm:"type:text;not null;default:''"`
	Likes     []LikeModel `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE"`
}

func (IdeaModel) TableName() string {
	return "ideas"
}

// LikeModel is a row of the likes table.
type LikeModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"type:timestamp;not null"`
	IdeaID    string    `gorm:"type:uuid;not null;index"`
}

func (LikeModel) TableName() string {
	return "likes"
}
