package gormstore

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bridgeBatchSize = 500

type bridgeRepo struct {
	db *gorm.DB
}

func NewBridgeRepository(s *Store) ports.BridgeRepository {
	return &bridgeRepo{db: s.db}
}

// bridgeRows builds the typed rows for kind so gorm picks the right table.
func bridgeRows(kind domain.BridgeKind, refID int64, artifactIDs []int64) (any, error) {
	switch kind {
	case domain.BridgeTag:
		rows := make([]domain.TagBridge, 0, len(artifactIDs))
		for _, id := range artifactIDs {
			rows = append(rows, domain.TagBridge{TagID: refID, ArtifactID: id})
		}
		return &rows, nil
	case domain.BridgeCulture:
		rows := make([]domain.CultureBridge, 0, len(artifactIDs))
		for _, id := range artifactIDs {
			rows = append(rows, domain.CultureBridge{CultureID: refID, ArtifactID: id})
		}
		return &rows, nil
	case domain.BridgeShape:
		rows := make([]domain.ShapeBridge, 0, len(artifactIDs))
		for _, id := range artifactIDs {
			rows = append(rows, domain.ShapeBridge{ShapeID: refID, ArtifactID: id})
		}
		return &rows, nil
	default:
		return nil, fmt.Errorf("unknown bridge kind %q", kind)
	}
}

func (r *bridgeRepo) Link(ctx context.Context, kind domain.BridgeKind, refID int64, artifactIDs []int64) (int, error) {
	if len(artifactIDs) == 0 {
		return 0, nil
	}

	rows, err := bridgeRows(kind, refID, artifactIDs)
	if err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, bridgeBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("link %s bridge: %w", kind, res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *bridgeRepo) RefIDs(ctx context.Context, kind domain.BridgeKind, artifactID int64) ([]int64, error) {
	var (
		model  any
		column string
	)
	switch kind {
	case domain.BridgeTag:
		model, column = &domain.TagBridge{}, "tag_id"
	case domain.BridgeCulture:
		model, column = &domain.CultureBridge{}, "culture_id"
	case domain.BridgeShape:
		model, column = &domain.ShapeBridge{}, "shape_id"
	default:
		return nil, fmt.Errorf("unknown bridge kind %q", kind)
	}

	var ids []int64
	if err := r.db.WithContext(ctx).Model(model).
		Where("artifact_id = ?", artifactID).
		Order("id ASC").
		Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("read %s bridge: %w", kind, err)
	}
	return ids, nil
}
