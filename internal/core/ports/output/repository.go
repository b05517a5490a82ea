package ports

import (
	"context"

	"artifact-catalog-service/internal/core/domain"
)

// CatalogFilter narrows the public artifact listing. All set fields are
// combined with AND; Tags requires every listed tag to be present.
type CatalogFilter struct {
	Query   string
	Culture string
	Shape   string
	Tags    []string
	Limit   int
	Offset  int
}

type ArtifactRepository interface {
	// Create inserts the artifact. A non-zero ID is stored as given.
	Create(ctx context.Context, artifact *domain.Artifact) error
	// Update writes the scalar and foreign-key columns.
	Update(ctx context.Context, artifact *domain.Artifact) error
	ReplaceTags(ctx context.Context, artifactID int64, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Artifact, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter CatalogFilter) ([]*domain.Artifact, int, error)
	// SyncIDSequence realigns the id generator after rows were inserted
	// with explicit ids.
	SyncIDSequence(ctx context.Context) error
}

// ReferenceRepository serves the four name-keyed reference tables.
//
// Upsert follows an insert-or-read contract keyed on the name: the row is
// inserted, a name conflict is ignored, and the stored row is read back.
// created reports whether this call inserted it.
type ReferenceRepository interface {
	Upsert(ctx context.Context, kind domain.RefKind, name string) (ref domain.Reference, created bool, err error)
	Create(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error)
	Get(ctx context.Context, kind domain.RefKind, id int64) (domain.Reference, error)
	FindByName(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error)
	List(ctx context.Context, kind domain.RefKind) ([]domain.Reference, error)
	GetTags(ctx context.Context, ids []int64) ([]domain.Tag, error)
}

// BridgeRepository writes and reads the import-time (reference, artifact id)
// association tables. Link ignores pairs that already exist and returns the
// number of pairs actually inserted.
type BridgeRepository interface {
	Link(ctx context.Context, kind domain.BridgeKind, refID int64, artifactIDs []int64) (int, error)
	RefIDs(ctx context.Context, kind domain.BridgeKind, artifactID int64) ([]int64, error)
}

type MediaRepository interface {
	UpsertThumbnail(ctx context.Context, path string) (*domain.Thumbnail, bool, error)
	GetThumbnailByPath(ctx context.Context, path string) (*domain.Thumbnail, error)
	FindThumbnailFor(ctx context.Context, externalID int64) (*domain.Thumbnail, error)

	// UpsertModel fills model.ID with the row matching the triple, inserting
	// it when missing.
	UpsertModel(ctx context.Context, model *domain.Model3D) (bool, error)
	FindModelFor(ctx context.Context, externalID int64) (*domain.Model3D, error)

	UpsertImage(ctx context.Context, path string) (*domain.Image, bool, error)
	GetImagesByPaths(ctx context.Context, paths []string) ([]domain.Image, error)
	UnlinkImages(ctx context.Context, artifactID int64) (int, error)
	LinkImages(ctx context.Context, artifactID int64, imageIDs []int64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetGroups(ctx context.Context, userID int64, groups []domain.Group) error
	UpsertGroup(ctx context.Context, name string) (*domain.Group, bool, error)
}

type RequesterRepository interface {
	Create(ctx context.Context, requester *domain.ArtifactRequester) error
	List(ctx context.Context, limit, offset int) ([]*domain.ArtifactRequester, int, error)
}
