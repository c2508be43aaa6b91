package repo

import (
	"gorm.io/gorm"
)

// GormRepo is the single persistence gateway for users and refresh tokens.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
