package testutil

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/core/ports/output"
)

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) Update(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) ReplaceTags(ctx context.Context, artifactID int64, tagIDs []int64) error {
	args := m.Called(ctx, artifactID, tagIDs)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, id int64) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactRepo) List(ctx context.Context, filter ports.CatalogFilter) ([]*domain.Artifact, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Artifact), args.Int(1), args.Error(2)
}

func (m *MockArtifactRepo) SyncIDSequence(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockReferenceRepo is a mock of ReferenceRepository.
type MockReferenceRepo struct {
	mock.Mock
}

func (m *MockReferenceRepo) Upsert(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, bool, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(domain.Reference), args.Bool(1), args.Error(2)
}

func (m *MockReferenceRepo) Create(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(domain.Reference), args.Error(1)
}

func (m *MockReferenceRepo) Get(ctx context.Context, kind domain.RefKind, id int64) (domain.Reference, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(domain.Reference), args.Error(1)
}

func (m *MockReferenceRepo) FindByName(ctx context.Context, kind domain.RefKind, name string) (domain.Reference, error) {
	args := m.Called(ctx, kind, name)
	return args.Get(0).(domain.Reference), args.Error(1)
}

func (m *MockReferenceRepo) List(ctx context.Context, kind domain.RefKind) ([]domain.Reference, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reference), args.Error(1)
}

func (m *MockReferenceRepo) GetTags(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

// MockMediaRepo is a mock of MediaRepository.
type MockMediaRepo struct {
	mock.Mock
}

func (m *MockMediaRepo) UpsertThumbnail(ctx context.Context, path string) (*domain.Thumbnail, bool, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Thumbnail), args.Bool(1), args.Error(2)
}

func (m *MockMediaRepo) GetThumbnailByPath(ctx context.Context, path string) (*domain.Thumbnail, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thumbnail), args.Error(1)
}

func (m *MockMediaRepo) FindThumbnailFor(ctx context.Context, externalID int64) (*domain.Thumbnail, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thumbnail), args.Error(1)
}

func (m *MockMediaRepo) UpsertModel(ctx context.Context, model *domain.Model3D) (bool, error) {
	args := m.Called(ctx, model)
	return args.Bool(0), args.Error(1)
}

func (m *MockMediaRepo) FindModelFor(ctx context.Context, externalID int64) (*domain.Model3D, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model3D), args.Error(1)
}

func (m *MockMediaRepo) UpsertImage(ctx context.Context, path string) (*domain.Image, bool, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Image), args.Bool(1), args.Error(2)
}

func (m *MockMediaRepo) GetImagesByPaths(ctx context.Context, paths []string) ([]domain.Image, error) {
	args := m.Called(ctx, paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Image), args.Error(1)
}

func (m *MockMediaRepo) UnlinkImages(ctx context.Context, artifactID int64) (int, error) {
	args := m.Called(ctx, artifactID)
	return args.Int(0), args.Error(1)
}

func (m *MockMediaRepo) LinkImages(ctx context.Context, artifactID int64, imageIDs []int64) error {
	args := m.Called(ctx, artifactID, imageIDs)
	return args.Error(0)
}

// MockUserRepo is a mock of UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) SetGroups(ctx context.Context, userID int64, groups []domain.Group) error {
	args := m.Called(ctx, userID, groups)
	return args.Error(0)
}

func (m *MockUserRepo) UpsertGroup(ctx context.Context, name string) (*domain.Group, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Group), args.Bool(1), args.Error(2)
}

// MockRequesterRepo is a mock of RequesterRepository.
type MockRequesterRepo struct {
	mock.Mock
}

func (m *MockRequesterRepo) Create(ctx context.Context, requester *domain.ArtifactRequester) error {
	args := m.Called(ctx, requester)
	return args.Error(0)
}

func (m *MockRequesterRepo) List(ctx context.Context, limit, offset int) ([]*domain.ArtifactRequester, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ArtifactRequester), args.Int(1), args.Error(2)
}

// MockEventPublisher is a mock of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockFileStorage is a mock of FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, kind domain.MediaKind, filename string, content io.Reader) (string, error) {
	args := m.Called(ctx, kind, filename, content)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Exists(kind domain.MediaKind, filename string) bool {
	args := m.Called(kind, filename)
	return args.Bool(0)
}

func (m *MockFileStorage) Open(path string) (io.ReadCloser, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) Path(kind domain.MediaKind, filename string) string {
	args := m.Called(kind, filename)
	return args.String(0)
}

func (m *MockFileStorage) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}

var (
	_ ports.ArtifactRepository  = (*MockArtifactRepo)(nil)
	_ ports.ReferenceRepository = (*MockReferenceRepo)(nil)
	_ ports.MediaRepository     = (*MockMediaRepo)(nil)
	_ ports.UserRepository      = (*MockUserRepo)(nil)
	_ ports.RequesterRepository = (*MockRequesterRepo)(nil)
	_ ports.EventPublisher      = (*MockEventPublisher)(nil)
	_ ports.FileStorage         = (*MockFileStorage)(nil)
)
