package db

import "time"

type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255"`
	External     bool      `gorm:"not null;default:false"`
	Role         string    `gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type ArticleModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text;not null"`
	AuthorID  uint      `gorm:"index;not null"`
	Author    UserModel `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ArticleModel) TableName() string { return "articles" }
