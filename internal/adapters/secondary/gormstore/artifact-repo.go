package gormstore

import (
	"context"
	"fmt"
	"strings"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	mapset "github.com/deckarep/golang-set/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type artifactRepo struct {
	db *gorm.DB
}

func NewArtifactRepository(s *Store) ports.ArtifactRepository {
	return &artifactRepo{db: s.db}
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(artifact).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrArtifactExists
		}
		return fmt.Errorf("create artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) Update(ctx context.Context, artifact *domain.Artifact) error {
	err := r.db.WithContext(ctx).Model(&domain.Artifact{}).
		Where("id = ?", artifact.ID).
		Updates(map[string]any{
			"description":  artifact.Description,
			"thumbnail_id": artifact.ThumbnailID,
			"model_id":     artifact.ModelID,
			"shape_id":     artifact.ShapeID,
			"culture_id":   artifact.CultureID,
		}).Error
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) ReplaceTags(ctx context.Context, artifactID int64, tagIDs []int64) error {
	ids := mapset.NewThreadUnsafeSet(tagIDs...)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM artifact_tags WHERE artifact_id = ?", artifactID).Error; err != nil {
			return err
		}
		if ids.Cardinality() == 0 {
			return nil
		}

		rows := make([]map[string]any, 0, ids.Cardinality())
		for _, id := range tagIDs {
			if !ids.Contains(id) {
				continue
			}
			ids.Remove(id)
			rows = append(rows, map[string]any{"artifact_id": artifactID, "tag_id": id})
		}
		return tx.Table("artifact_tags").Create(rows).Error
	})
	if err != nil {
		return fmt.Errorf("replace artifact tags: %w", err)
	}
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id int64) (*domain.Artifact, error) {
	var artifact domain.Artifact
	err := r.db.WithContext(ctx).
		Preload("Thumbnail").
		Preload("Model").
		Preload("Shape").
		Preload("Culture").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") }).
		Where("id = ?", id).
		Take(&artifact).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return &artifact, nil
}

func (r *artifactRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Artifact{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check artifact: %w", err)
	}
	return count > 0, nil
}

func (r *artifactRepo) List(ctx context.Context, filter ports.CatalogFilter) ([]*domain.Artifact, int, error) {
	q := r.db.WithContext(ctx).Model(&domain.Artifact{})

	if filter.Query != "" {
		needle := escapeLike(filter.Query)
		q = q.Where(
			"(LOWER(artifacts.description) LIKE ? ESCAPE '!' OR CAST(artifacts.id AS "+r.textType()+") LIKE ? ESCAPE '!')",
			"%"+strings.ToLower(needle)+"%",
			"%"+needle+"%",
		)
	}
	if filter.Culture != "" {
		q = q.Where("artifacts.culture_id IN (?)",
			r.db.Model(&domain.Culture{}).Select("id").Where("LOWER(name) = ?", strings.ToLower(filter.Culture)))
	}
	if filter.Shape != "" {
		q = q.Where("artifacts.shape_id IN (?)",
			r.db.Model(&domain.Shape{}).Select("id").Where("LOWER(name) = ?", strings.ToLower(filter.Shape)))
	}
	if names := lowerSet(filter.Tags); len(names) > 0 {
		// An artifact matches only when it carries every requested tag.
		tagged := r.db.Table("artifact_tags").
			Select("artifact_tags.artifact_id").
			Joins("JOIN tags ON tags.id = artifact_tags.tag_id").
			Where("LOWER(tags.name) IN ?", names).
			Group("artifact_tags.artifact_id").
			Having("COUNT(DISTINCT LOWER(tags.name)) = ?", len(names))
		q = q.Where("artifacts.id IN (?)", tagged)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count artifacts: %w", err)
	}

	page := q.
		Preload("Thumbnail").
		Preload("Shape").
		Preload("Culture").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Order("artifacts.id ASC")
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit).Offset(filter.Offset)
	}

	var artifacts []*domain.Artifact
	if err := page.Find(&artifacts).Error; err != nil {
		return nil, 0, fmt.Errorf("list artifacts: %w", err)
	}

	return artifacts, int(total), nil
}

func (r *artifactRepo) SyncIDSequence(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	err := r.db.WithContext(ctx).Exec(
		"SELECT setval(pg_get_serial_sequence('artifacts', 'id'), COALESCE((SELECT MAX(id) FROM artifacts), 0) + 1, false)",
	).Error
	if err != nil {
		return fmt.Errorf("sync artifact id sequence: %w", err)
	}
	return nil
}

// textType is the CAST target for integer-to-text conversion on this dialect.
func (r *artifactRepo) textType() string {
	if r.db.Dialector.Name() == "mysql" {
		return "CHAR"
	}
	return "TEXT"
}

func lowerSet(values []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen.Contains(v) {
			continue
		}
		seen.Add(v)
		out = append(out, v)
	}
	return out
}

// likeEscaper pairs with LIKE ... ESCAPE '!' so queries match literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
