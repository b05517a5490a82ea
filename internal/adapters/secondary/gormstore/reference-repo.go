package gormstore

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// refRow maps any of the {id, name} reference tables.
type refRow struct {
	ID   int64
	Name string
}

type referenceRepo struct {
	db *gorm.DB
}

func NewReferenceRepository(s *Store) ports.ReferenceRepository {
	return &referenceRepo{db: s.db}
}

func refTable(kind domain.RefKind) (string, error) {
	switch kind {
	case domain.RefShape:
		return "shapes", nil
	case domain.RefCulture:
		return "cultures", nil
	case domain.RefTag:
		return "tags", nil
	case domain.RefInstitution:
		return "institutions", nil
	default:
		return "", fmt.Errorf("unknown reference kind %q", kind)
	}
}

func refNotFound(kind domain.RefKind) error {
	switch kind {
	case domain.RefShape:
		return domain.ErrShapeNotFound
	case domain.RefCulture:
		return domain.ErrCultureNotFound
	case domain.RefTag:
		return domain.ErrTagNotFound
	default:
		return domain.ErrInstitutionNotFound
	}
}

func refConflict(kind domain.RefKind) error {
	if kind == domain.RefInstitution {
		return domain.ErrInstitutionExists
	}
	return fmt.Errorf("%s: %w", kind, domain.ErrAlreadyExists)
}

func (r *referenceRepo) Upsert(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, bool, error) {
	table, err := refTable(kind)
	if err != nil {
		return domain.Reference{}, false, err
	}

	res := r.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&refRow{Name: name})
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return domain.Reference{}, false, fmt.Errorf("upsert %s: %w", kind, res.Error)
	}

	var row refRow
	if err := r.db.WithContext(ctx).Table(table).Where("name = ?", name).Take(&row).Error; err != nil {
		return domain.Reference{}, false, fmt.Errorf("read %s after upsert: %w", kind, err)
	}
	return domain.Reference{ID: row.ID, Name: row.Name}, res.Error == nil && res.RowsAffected > 0, nil
}

func (r *referenceRepo) Create(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error) {
	table, err := refTable(kind)
	if err != nil {
		return domain.Reference{}, err
	}

	row := refRow{Name: name}
	if err := r.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Reference{}, refConflict(kind)
		}
		return domain.Reference{}, fmt.Errorf("create %s: %w", kind, err)
	}
	return domain.Reference{ID: row.ID, Name: row.Name}, nil
}

func (r *referenceRepo) Get(ctx context.Context, kind domain.RefKind, id int64) (domain.Reference, error) {
	return r.take(ctx, kind, "id = ?", id)
}

func (r *referenceRepo) FindByName(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error) {
	return r.take(ctx, kind, "name = ?", name)
}

func (r *referenceRepo) take(ctx context.Context, kind domain.RefKind, query string, arg any) (domain.Reference, error) {
	table, err := refTable(kind)
	if err != nil {
		return domain.Reference{}, err
	}

	var row refRow
	if err := r.db.WithContext(ctx).Table(table).Where(query, arg).Take(&row).Error; err != nil {
		if isNotFound(err) {
			return domain.Reference{}, refNotFound(kind)
		}
		return domain.Reference{}, fmt.Errorf("get %s: %w", kind, err)
	}
	return domain.Reference{ID: row.ID, Name: row.Name}, nil
}

func (r *referenceRepo) List(ctx context.Context, kind domain.RefKind) ([]domain.Reference, error) {
	table, err := refTable(kind)
	if err != nil {
		return nil, err
	}

	var rows []refRow
	if err := r.db.WithContext(ctx).Table(table).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	refs := make([]domain.Reference, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, domain.Reference{ID: row.ID, Name: row.Name})
	}
	return refs, nil
}

func (r *referenceRepo) GetTags(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}
