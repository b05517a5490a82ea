package services

import (
	"context"
	"strings"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	log "github.com/sirupsen/logrus"
)

// Metadata holds the reference values offered by the catalog filters.
type Metadata struct {
	Shapes   []domain.Reference
	Tags     []domain.Reference
	Cultures []domain.Reference
}

type MetadataService struct {
	refs ports.ReferenceRepository
}

func NewMetadataService(refs ports.ReferenceRepository) *MetadataService {
	return &MetadataService{refs: refs}
}

func (s *MetadataService) Metadata(ctx context.Context) (*Metadata, error) {
	shapes, err := s.refs.List(ctx, domain.RefShape)
	if err != nil {
		return nil, err
	}
	tags, err := s.refs.List(ctx, domain.RefTag)
	if err != nil {
		return nil, err
	}
	cultures, err := s.refs.List(ctx, domain.RefCulture)
	if err != nil {
		return nil, err
	}
	return &Metadata{Shapes: shapes, Tags: tags, Cultures: cultures}, nil
}

func (s *MetadataService) ListInstitutions(ctx context.Context) ([]domain.Reference, error) {
	return s.refs.List(ctx, domain.RefInstitution)
}

func (s *MetadataService) CreateInstitution(ctx context.Context, name string) (domain.Reference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Reference{}, domain.ErrInstitutionRequired
	}

	inst, err := s.refs.Create(ctx, domain.RefInstitution, name)
	if err != nil {
		return domain.Reference{}, err
	}

	log.WithFields(log.Fields{"institution_id": inst.ID, "name": inst.Name}).Info("institution created")
	return inst, nil
}
