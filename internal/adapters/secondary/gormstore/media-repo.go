package gormstore

import (
	"context"
	"fmt"
	"strconv"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mediaRepo struct {
	db *gorm.DB
}

func NewMediaRepository(s *Store) ports.MediaRepository {
	return &mediaRepo{db: s.db}
}

// idPattern matches stored paths whose file stem is the external id,
// e.g. "thumbnails/101.png" or "materials/101.mtl".
func idPattern(externalID int64) string {
	return "%/" + strconv.FormatInt(externalID, 10) + ".%"
}

func (r *mediaRepo) UpsertThumbnail(ctx context.Context, path string) (*domain.Thumbnail, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "path"}}, DoNothing: true}).
		Create(&domain.Thumbnail{Path: path})
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, false, fmt.Errorf("upsert thumbnail: %w", res.Error)
	}

	thumb, err := r.GetThumbnailByPath(ctx, path)
	if err != nil {
		return nil, false, err
	}
	return thumb, res.Error == nil && res.RowsAffected > 0, nil
}

func (r *mediaRepo) GetThumbnailByPath(ctx context.Context, path string) (*domain.Thumbnail, error) {
	var thumb domain.Thumbnail
	if err := r.db.WithContext(ctx).Where("path = ?", path).Take(&thumb).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrThumbnailNotFound
		}
		return nil, fmt.Errorf("get thumbnail: %w", err)
	}
	return &thumb, nil
}

func (r *mediaRepo) FindThumbnailFor(ctx context.Context, externalID int64) (*domain.Thumbnail, error) {
	var thumb domain.Thumbnail
	err := r.db.WithContext(ctx).
		Where("path LIKE ?", idPattern(externalID)).
		Order("id ASC").
		First(&thumb).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrThumbnailNotFound
		}
		return nil, fmt.Errorf("find thumbnail: %w", err)
	}
	return &thumb, nil
}

func (r *mediaRepo) UpsertModel(ctx context.Context, model *domain.Model3D) (bool, error) {
	row := domain.Model3D{Texture: model.Texture, Object: model.Object, Material: model.Material}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "texture"}, {Name: "object"}, {Name: "material"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return false, fmt.Errorf("upsert model: %w", res.Error)
	}

	var stored domain.Model3D
	if err := r.db.WithContext(ctx).
		Where("texture = ? AND object = ? AND material = ?", model.Texture, model.Object, model.Material).
		Take(&stored).Error; err != nil {
		return false, fmt.Errorf("read model after upsert: %w", err)
	}
	model.ID = stored.ID
	return res.Error == nil && res.RowsAffected > 0, nil
}

func (r *mediaRepo) FindModelFor(ctx context.Context, externalID int64) (*domain.Model3D, error) {
	pattern := idPattern(externalID)

	var model domain.Model3D
	err := r.db.WithContext(ctx).
		Where("texture LIKE ? AND object LIKE ? AND material LIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("find model: %w", err)
	}
	return &model, nil
}

func (r *mediaRepo) UpsertImage(ctx context.Context, path string) (*domain.Image, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "path"}}, DoNothing: true}).
		Create(&domain.Image{Path: path})
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, false, fmt.Errorf("upsert image: %w", res.Error)
	}

	var img domain.Image
	if err := r.db.WithContext(ctx).Where("path = ?", path).Take(&img).Error; err != nil {
		return nil, false, fmt.Errorf("read image after upsert: %w", err)
	}
	return &img, res.Error == nil && res.RowsAffected > 0, nil
}

func (r *mediaRepo) GetImagesByPaths(ctx context.Context, paths []string) ([]domain.Image, error) {
	if len(paths) == 0 {
		return []domain.Image{}, nil
	}

	var images []domain.Image
	if err := r.db.WithContext(ctx).Where("path IN ?", paths).Order("id ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("get images: %w", err)
	}
	return images, nil
}

func (r *mediaRepo) UnlinkImages(ctx context.Context, artifactID int64) (int, error) {
	res := r.db.WithContext(ctx).Model(&domain.Image{}).
		Where("artifact_id = ?", artifactID).
		Update("artifact_id", nil)
	if res.Error != nil {
		return 0, fmt.Errorf("unlink images: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *mediaRepo) LinkImages(ctx context.Context, artifactID int64, imageIDs []int64) error {
	if len(imageIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Model(&domain.Image{}).
		Where("id IN ?", imageIDs).
		Update("artifact_id", artifactID).Error
	if err != nil {
		return fmt.Errorf("link images: %w", err)
	}
	return nil
}
