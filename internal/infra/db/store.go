package db

import (
	"fmt"

	"newsroom/internal/config"
	"newsroom/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errDBUnavailable = fmt.Errorf("database not configured: %w", domain.ErrDependencyUnavailable)

// Store owns the database handle. Open it once at process start, close it
// at shutdown; repositories borrow the handle and never manage lifecycle.
type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		return &Store{DB: nil}, nil
	}
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

func (s *Store) Migrate() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.AutoMigrate(&UserModel{}, &ArticleModel{})
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
