package gormstore

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(s *Store) ports.UserRepository {
	return &userRepo{db: s.db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.take(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.take(ctx, "username = ?", username)
}

func (r *userRepo) take(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("auth_groups.id ASC") }).
		Where(query, arg).
		Take(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// SetGroups clears the user's memberships and assigns the given groups.
func (r *userRepo) SetGroups(ctx context.Context, userID int64, groups []domain.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return nil
		}

		rows := make([]map[string]any, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, map[string]any{"user_id": userID, "group_id": g.ID})
		}
		return tx.Table("user_groups").Create(rows).Error
	})
	if err != nil {
		return fmt.Errorf("set user groups: %w", err)
	}
	return nil
}

func (r *userRepo) UpsertGroup(ctx context.Context, name string) (*domain.Group, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&domain.Group{Name: name})
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, false, fmt.Errorf("upsert group: %w", res.Error)
	}

	var group domain.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&group).Error; err != nil {
		return nil, false, fmt.Errorf("read group after upsert: %w", err)
	}
	return &group, res.Error == nil && res.RowsAffected > 0, nil
}
