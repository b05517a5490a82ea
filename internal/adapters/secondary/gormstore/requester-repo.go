package gormstore

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type requesterRepo struct {
	db *gorm.DB
}

func NewRequesterRepository(s *Store) ports.RequesterRepository {
	return &requesterRepo{db: s.db}
}

func (r *requesterRepo) Create(ctx context.Context, requester *domain.ArtifactRequester) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(requester).Error; err != nil {
		return fmt.Errorf("create artifact requester: %w", err)
	}
	return nil
}

func (r *requesterRepo) List(ctx context.Context, limit, offset int) ([]*domain.ArtifactRequester, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.ArtifactRequester{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count artifact requesters: %w", err)
	}

	var requesters []*domain.ArtifactRequester
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&requesters).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list artifact requesters: %w", err)
	}
	return requesters, int(total), nil
}
