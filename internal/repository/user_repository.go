package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fadilmartias/interview-grader/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

// FindOrCreate returns the user with the given name and role, creating it
// when absent. A concurrent insert losing the unique index race is resolved
// by reading the winner's row.
func (r *UserRepository) FindOrCreate(ctx context.Context, name, role string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where(&model.User{Name: name, Role: role}).
		FirstOrCreate(&user).Error
	if err == nil {
		return &user, nil
	}

	if errRead := r.db.WithContext(ctx).Where("name = ? AND role = ?", name, role).First(&user).Error; errRead == nil {
		return &user, nil
	}
	return nil, fmt.Errorf("find or create %s %q: %w", role, name, err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
