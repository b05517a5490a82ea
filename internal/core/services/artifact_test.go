package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-catalog-service/internal/adapters/secondary/filestore"
	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/core/ports/output"
	"artifact-catalog-service/internal/testutil"
)

type artifactMocks struct {
	artifacts *testutil.MockArtifactRepo
	refs      *testutil.MockReferenceRepo
	media     *testutil.MockMediaRepo
	root      string
	svc       *ArtifactService
}

func newArtifactMocks(t *testing.T) *artifactMocks {
	t.Helper()
	root := t.TempDir()
	storage, err := filestore.NewLocalStorage(root, "/media/")
	require.NoError(t, err)

	m := &artifactMocks{
		artifacts: new(testutil.MockArtifactRepo),
		refs:      new(testutil.MockReferenceRepo),
		media:     new(testutil.MockMediaRepo),
		root:      root,
	}
	m.svc = NewArtifactService(m.artifacts, m.refs, m.media, storage)
	return m
}

func (m *artifactMocks) expectRefs() {
	m.refs.On("Get", mock.Anything, domain.RefShape, int64(1)).Return(domain.Reference{ID: 1, Name: "Vasija"}, nil)
	m.refs.On("Get", mock.Anything, domain.RefCulture, int64(2)).Return(domain.Reference{ID: 2, Name: "Diaguita"}, nil)
}

func upload(name, content string) *ports.Upload {
	return &ports.Upload{Filename: name, Content: strings.NewReader(content)}
}

func ptr[T any](v T) *T { return &v }

func TestArtifactService_Create(t *testing.T) {
	m := newArtifactMocks(t)
	m.expectRefs()

	var saved *domain.Artifact
	m.artifacts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Artifact")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Artifact)
			saved.ID = 55
		}).Return(nil)
	m.artifacts.On("Update", mock.Anything, mock.AnythingOfType("*domain.Artifact")).Return(nil)
	m.artifacts.On("ReplaceTags", mock.Anything, int64(55), []int64{3}).Return(nil)
	m.artifacts.On("GetByID", mock.Anything, int64(55)).Return(&domain.Artifact{ID: 55, Description: "Bowl"}, nil)

	m.refs.On("GetTags", mock.Anything, []int64{3}).Return([]domain.Tag{{ID: 3, Name: "ritual"}}, nil)

	m.media.On("UpsertThumbnail", mock.Anything, "thumbnails/55.png").Return(&domain.Thumbnail{ID: 8, Path: "thumbnails/55.png"}, true, nil)
	m.media.On("UpsertModel", mock.Anything, mock.AnythingOfType("*domain.Model3D")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Model3D).ID = 7 }).
		Return(true, nil)
	m.media.On("UnlinkImages", mock.Anything, int64(55)).Return(0, nil)
	m.media.On("UpsertImage", mock.Anything, "images/55_pat.jpg").Return(&domain.Image{ID: 4, Path: "images/55_pat.jpg"}, true, nil)
	m.media.On("LinkImages", mock.Anything, int64(55), []int64{4}).Return(nil)

	artifact, err := m.svc.Create(context.Background(), ArtifactInput{
		Description:  ptr("Bowl"),
		ShapeID:      ptr(int64(1)),
		CultureID:    ptr(int64(2)),
		TagIDs:       []int64{3, 3},
		TagsSet:      true,
		NewThumbnail: upload("55.png", "thumb"),
		NewTexture:   upload("55.png", "texture"),
		NewObject:    upload("55.obj", "object"),
		NewMaterial:  upload("55.mtl", "material"),
		NewImages:    []ports.Upload{*upload("55_pat.jpg", "image")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(55), artifact.ID)

	require.NotNil(t, saved)
	assert.Equal(t, int64(7), *saved.ModelID)
	assert.Equal(t, int64(8), *saved.ThumbnailID)
	assert.Equal(t, int64(1), *saved.ShapeID)
	assert.Equal(t, int64(2), *saved.CultureID)

	for _, p := range []string{"thumbnails/55.png", "materials/55.png", "objects/55.obj", "materials/55.mtl", "images/55_pat.jpg"} {
		_, err := os.Stat(filepath.Join(m.root, p))
		assert.NoError(t, err, p)
	}

	m.artifacts.AssertNumberOfCalls(t, "Update", 1)
	m.artifacts.AssertExpectations(t)
	m.media.AssertExpectations(t)
}

func TestArtifactService_Create_RequiresModelFiles(t *testing.T) {
	m := newArtifactMocks(t)
	m.expectRefs()

	_, err := m.svc.Create(context.Background(), ArtifactInput{
		Description: ptr("Bowl"),
		ShapeID:     ptr(int64(1)),
		CultureID:   ptr(int64(2)),
		NewTexture:  upload("1.png", "texture"),
	})
	assert.ErrorIs(t, err, domain.ErrModelFilesRequired)
	m.artifacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtifactService_Create_Validation(t *testing.T) {
	m := newArtifactMocks(t)

	_, err := m.svc.Create(context.Background(), ArtifactInput{ShapeID: ptr(int64(1))})
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)

	_, err = m.svc.Create(context.Background(), ArtifactInput{Description: ptr(strings.Repeat("a", 301))})
	assert.ErrorIs(t, err, domain.ErrDescriptionTooLong)

	_, err = m.svc.Create(context.Background(), ArtifactInput{Description: ptr("Bowl")})
	assert.ErrorIs(t, err, domain.ErrShapeRequired)

	m.refs.On("Get", mock.Anything, domain.RefShape, int64(99)).Return(domain.Reference{}, domain.ErrShapeNotFound)
	_, err = m.svc.Create(context.Background(), ArtifactInput{Description: ptr("Bowl"), ShapeID: ptr(int64(99))})
	assert.ErrorIs(t, err, domain.ErrShapeNotFound)

	m.artifacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func existingArtifact() *domain.Artifact {
	return &domain.Artifact{
		ID:          10,
		Description: "Old",
		ShapeID:     ptr(int64(1)),
		CultureID:   ptr(int64(2)),
		ThumbnailID: ptr(int64(8)),
		Thumbnail:   &domain.Thumbnail{ID: 8, Path: "thumbnails/10.png"},
		ModelID:     ptr(int64(7)),
		Model:       &domain.Model3D{ID: 7, Texture: "materials/10.png", Object: "objects/10.obj", Material: "materials/10.mtl"},
	}
}

func TestArtifactService_PartialUpdate_KeepsSelectedMedia(t *testing.T) {
	m := newArtifactMocks(t)
	current := existingArtifact()

	var updated []domain.Artifact
	m.artifacts.On("GetByID", mock.Anything, int64(10)).Return(current, nil)
	m.artifacts.On("Update", mock.Anything, mock.AnythingOfType("*domain.Artifact")).
		Run(func(args mock.Arguments) { updated = append(updated, *args.Get(1).(*domain.Artifact)) }).
		Return(nil)

	m.media.On("GetThumbnailByPath", mock.Anything, "thumbnails/10.png").Return(current.Thumbnail, nil)
	m.media.On("GetImagesByPaths", mock.Anything, []string{"images/10_pat.jpg"}).Return([]domain.Image{{ID: 4, Path: "images/10_pat.jpg"}}, nil)
	m.media.On("UnlinkImages", mock.Anything, int64(10)).Return(2, nil)
	m.media.On("LinkImages", mock.Anything, int64(10), []int64{4}).Return(nil)

	_, err := m.svc.Update(context.Background(), 10, ArtifactInput{
		Description: ptr("New"),
		Thumbnail:   "10.png",
		KeepImages:  []string{"10_pat.jpg"},
	}, true)
	require.NoError(t, err)

	require.Len(t, updated, 2)
	final := updated[1]
	assert.Equal(t, "New", final.Description)
	assert.Equal(t, int64(1), *final.ShapeID)
	assert.Equal(t, int64(8), *final.ThumbnailID)
	assert.Equal(t, int64(7), *final.ModelID)

	m.artifacts.AssertNotCalled(t, "ReplaceTags", mock.Anything, mock.Anything, mock.Anything)
	m.media.AssertNotCalled(t, "UpsertModel", mock.Anything, mock.Anything)
	m.media.AssertExpectations(t)
}

func TestArtifactService_Update_ClearsThumbnailAndImages(t *testing.T) {
	m := newArtifactMocks(t)
	m.expectRefs()

	var final domain.Artifact
	m.artifacts.On("GetByID", mock.Anything, int64(10)).Return(existingArtifact(), nil)
	m.artifacts.On("Update", mock.Anything, mock.AnythingOfType("*domain.Artifact")).
		Run(func(args mock.Arguments) { final = *args.Get(1).(*domain.Artifact) }).
		Return(nil)
	m.artifacts.On("ReplaceTags", mock.Anything, int64(10), []int64{}).Return(nil)
	m.refs.On("GetTags", mock.Anything, []int64{}).Return([]domain.Tag{}, nil)
	m.media.On("UnlinkImages", mock.Anything, int64(10)).Return(3, nil)
	m.media.On("LinkImages", mock.Anything, int64(10), []int64{}).Return(nil)

	_, err := m.svc.Update(context.Background(), 10, ArtifactInput{
		Description: ptr("Old"),
		ShapeID:     ptr(int64(1)),
		CultureID:   ptr(int64(2)),
		TagsSet:     true,
	}, false)
	require.NoError(t, err)

	assert.Nil(t, final.ThumbnailID)
	assert.Equal(t, int64(7), *final.ModelID)
	m.artifacts.AssertExpectations(t)
	m.media.AssertExpectations(t)
}

func TestArtifactService_Update_UnknownKeptImage(t *testing.T) {
	m := newArtifactMocks(t)

	m.artifacts.On("GetByID", mock.Anything, int64(10)).Return(existingArtifact(), nil)
	m.media.On("GetImagesByPaths", mock.Anything, []string{"images/gone.jpg"}).Return([]domain.Image{}, nil)

	_, err := m.svc.Update(context.Background(), 10, ArtifactInput{KeepImages: []string{"gone.jpg"}}, true)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
	m.artifacts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestArtifactService_Update_NotFound(t *testing.T) {
	m := newArtifactMocks(t)
	m.artifacts.On("GetByID", mock.Anything, int64(404)).Return(nil, domain.ErrArtifactNotFound)

	_, err := m.svc.Update(context.Background(), 404, ArtifactInput{}, true)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
