package services

import (
	"context"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"
)

const defaultPageSize = 9

// CatalogPage is one page of the public artifact listing.
type CatalogPage struct {
	Items       []*domain.Artifact
	CurrentPage int
	Total       int
	PerPage     int
	TotalPages  int
}

type CatalogService struct {
	repo     ports.ArtifactRepository
	pageSize int
}

func NewCatalogService(repo ports.ArtifactRepository, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CatalogService{repo: repo, pageSize: pageSize}
}

// List returns the given 1-based page of artifacts matching filter, ordered
// by id. Pages past the last one are rejected, except page 1 of an empty
// result.
func (s *CatalogService) List(ctx context.Context, filter ports.CatalogFilter, page int) (*CatalogPage, error) {
	if page < 1 {
		return nil, domain.ErrInvalidPage
	}

	filter.Limit = s.pageSize
	filter.Offset = (page - 1) * s.pageSize

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + s.pageSize - 1) / s.pageSize
	if page > 1 && page > totalPages {
		return nil, domain.ErrInvalidPage
	}
	if items == nil {
		items = []*domain.Artifact{}
	}

	return &CatalogPage{
		Items:       items,
		CurrentPage: page,
		Total:       total,
		PerPage:     s.pageSize,
		TotalPages:  totalPages,
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Artifact, error) {
	if id <= 0 {
		return nil, domain.ErrArtifactNotFound
	}
	return s.repo.GetByID(ctx, id)
}
