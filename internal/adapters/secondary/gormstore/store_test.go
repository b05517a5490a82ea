package gormstore

import (
	"context"
	"testing"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore creates an in-memory SQLite store with the schema migrated.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := New(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func int64Ptr(v int64) *int64 { return &v }

func countRows(t *testing.T, s *Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(model).Count(&n).Error)
	return n
}

func TestReferenceRepo_UpsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	repo := NewReferenceRepository(store)
	ctx := context.Background()

	first, created, err := repo.Upsert(ctx, domain.RefTag, "ritual")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := repo.Upsert(ctx, domain.RefTag, "ritual")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, int64(1), countRows(t, store, &domain.Tag{}))
}

func TestReferenceRepo_CreateInstitutionConflict(t *testing.T) {
	store := newTestStore(t)
	repo := NewReferenceRepository(store)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.RefInstitution, "Museo Chileno de Arte Precolombino")
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.RefInstitution, "Museo Chileno de Arte Precolombino")
	assert.ErrorIs(t, err, domain.ErrInstitutionExists)
}

func TestReferenceRepo_GetNotFound(t *testing.T) {
	store := newTestStore(t)
	repo := NewReferenceRepository(store)

	_, err := repo.Get(context.Background(), domain.RefShape, 42)
	assert.ErrorIs(t, err, domain.ErrShapeNotFound)

	_, err = repo.GetTags(context.Background(), []int64{1, 2})
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestBridgeRepo_LinkIgnoresExistingPairs(t *testing.T) {
	store := newTestStore(t)
	repo := NewBridgeRepository(store)
	ctx := context.Background()

	n, err := repo.Link(ctx, domain.BridgeShape, 1, []int64{101, 102})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Link(ctx, domain.BridgeShape, 1, []int64{101, 102, 103})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, int64(3), countRows(t, store, &domain.ShapeBridge{}))

	ids, err := repo.RefIDs(ctx, domain.BridgeShape, 103)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestMediaRepo_FindByExternalID(t *testing.T) {
	store := newTestStore(t)
	repo := NewMediaRepository(store)
	ctx := context.Background()

	_, _, err := repo.UpsertThumbnail(ctx, "thumbnails/1010.png")
	require.NoError(t, err)
	thumb, created, err := repo.UpsertThumbnail(ctx, "thumbnails/101.png")
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindThumbnailFor(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, thumb.ID, found.ID)

	model := &domain.Model3D{Texture: "materials/101.png", Object: "objects/101.obj", Material: "materials/101.mtl"}
	created, err = repo.UpsertModel(ctx, model)
	require.NoError(t, err)
	assert.True(t, created)

	again := &domain.Model3D{Texture: model.Texture, Object: model.Object, Material: model.Material}
	created, err = repo.UpsertModel(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.ID, again.ID)

	foundModel, err := repo.FindModelFor(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, model.ID, foundModel.ID)

	_, err = repo.FindModelFor(ctx, 102)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestMediaRepo_UnlinkKeepsImageRows(t *testing.T) {
	store := newTestStore(t)
	artifacts := NewArtifactRepository(store)
	media := NewMediaRepository(store)
	ctx := context.Background()

	require.NoError(t, artifacts.Create(ctx, &domain.Artifact{ID: 7, Description: "Jarro"}))

	a, _, err := media.UpsertImage(ctx, "images/7_a.jpg")
	require.NoError(t, err)
	b, _, err := media.UpsertImage(ctx, "images/7_b.jpg")
	require.NoError(t, err)
	require.NoError(t, media.LinkImages(ctx, 7, []int64{a.ID, b.ID}))

	n, err := media.UnlinkImages(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := artifacts.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
	assert.Equal(t, int64(2), countRows(t, store, &domain.Image{}))
}

func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	refs := NewReferenceRepository(s)
	artifacts := NewArtifactRepository(s)

	vasija, _, err := refs.Upsert(ctx, domain.RefShape, "Vasija")
	require.NoError(t, err)
	plato, _, err := refs.Upsert(ctx, domain.RefShape, "Plato")
	require.NoError(t, err)
	diaguita, _, err := refs.Upsert(ctx, domain.RefCulture, "Diaguita")
	require.NoError(t, err)
	ritual, _, err := refs.Upsert(ctx, domain.RefTag, "ritual")
	require.NoError(t, err)
	funerario, _, err := refs.Upsert(ctx, domain.RefTag, "funerario")
	require.NoError(t, err)

	rows := []struct {
		id    int64
		desc  string
		shape int64
		tags  []int64
	}{
		{1, "Vasija ceremonial", vasija.ID, []int64{ritual.ID, funerario.ID}},
		{2, "Vasija domestica", vasija.ID, []int64{ritual.ID}},
		{3, "Plato pintado", plato.ID, []int64{ritual.ID, funerario.ID}},
		{12, "Fragmento", vasija.ID, nil},
	}
	for _, r := range rows {
		a := &domain.Artifact{ID: r.id, Description: r.desc, ShapeID: int64Ptr(r.shape), CultureID: int64Ptr(diaguita.ID)}
		require.NoError(t, artifacts.Create(ctx, a))
		require.NoError(t, artifacts.ReplaceTags(ctx, r.id, r.tags))
	}
}

func listIDs(t *testing.T, repo ports.ArtifactRepository, f ports.CatalogFilter) ([]int64, int) {
	t.Helper()
	items, total, err := repo.List(context.Background(), f)
	require.NoError(t, err)
	ids := make([]int64, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}
	return ids, total
}

func TestArtifactRepo_ListFilters(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	repo := NewArtifactRepository(store)

	ids, total := listIDs(t, repo, ports.CatalogFilter{Limit: 9})
	assert.Equal(t, []int64{1, 2, 3, 12}, ids)
	assert.Equal(t, 4, total)

	ids, _ = listIDs(t, repo, ports.CatalogFilter{Tags: []string{"ritual", "funerario"}, Limit: 9})
	assert.Equal(t, []int64{1, 3}, ids, "strict subset of the tags must be excluded")

	ids, _ = listIDs(t, repo, ports.CatalogFilter{Shape: "Vasija", Tags: []string{"ritual", "funerario"}, Limit: 9})
	assert.Equal(t, []int64{1}, ids)

	ids, _ = listIDs(t, repo, ports.CatalogFilter{Culture: "diaguita", Limit: 9})
	assert.Len(t, ids, 4)

	ids, _ = listIDs(t, repo, ports.CatalogFilter{Query: "VASIJA", Limit: 9})
	assert.Equal(t, []int64{1, 2}, ids)

	ids, _ = listIDs(t, repo, ports.CatalogFilter{Query: "12", Limit: 9})
	assert.Equal(t, []int64{12}, ids)

	for _, q := range []string{"%", "_", "V_sija", "!"} {
		ids, total = listIDs(t, repo, ports.CatalogFilter{Query: q, Limit: 9})
		assert.Empty(t, ids, "wildcards in %q must match literally", q)
		assert.Zero(t, total)
	}

	ids, total = listIDs(t, repo, ports.CatalogFilter{Limit: 2, Offset: 2})
	assert.Equal(t, []int64{3, 12}, ids)
	assert.Equal(t, 4, total)
}

func TestArtifactRepo_CreateDuplicateAndUpdate(t *testing.T) {
	store := newTestStore(t)
	repo := NewArtifactRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Artifact{ID: 5, Description: "Cuenco"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Artifact{ID: 5, Description: "Otro"}), domain.ErrArtifactExists)

	require.NoError(t, repo.Update(ctx, &domain.Artifact{ID: 5, Description: "Cuenco pulido"}))
	got, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Cuenco pulido", got.Description)

	_, err = repo.GetByID(ctx, 6)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	exists, err := repo.Exists(ctx, 5)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, repo.SyncIDSequence(ctx))
}

func TestUserRepo_GroupsAndLookup(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := &domain.User{Username: "ana", Email: "ana@example.cl", PasswordHash: "x", Role: domain.RoleFuncionario, IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "ana", Email: "other@example.cl", PasswordHash: "x"}), domain.ErrUserExists)

	fn, created, err := repo.UpsertGroup(ctx, domain.GroupFuncionario)
	require.NoError(t, err)
	assert.True(t, created)
	ad, _, err := repo.UpsertGroup(ctx, domain.GroupAdministrador)
	require.NoError(t, err)

	require.NoError(t, repo.SetGroups(ctx, user.ID, []domain.Group{*fn}))
	require.NoError(t, repo.SetGroups(ctx, user.ID, []domain.Group{*ad}))

	got, err := repo.GetByEmail(ctx, "ANA@example.cl")
	require.NoError(t, err)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, domain.GroupAdministrador, got.Groups[0].Name)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRequesterRepo_CreateAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, NewArtifactRepository(store).Create(ctx, &domain.Artifact{ID: 1, Description: "Cuenco"}))
	inst, err := NewReferenceRepository(store).Create(ctx, domain.RefInstitution, "Universidad de Chile")
	require.NoError(t, err)

	repo := NewRequesterRepository(store)
	require.NoError(t, repo.Create(ctx, &domain.ArtifactRequester{
		Name: "Pedro", RUT: "123456785", Email: "p@example.cl", ArtifactID: 1, InstitutionID: int64Ptr(inst.ID),
	}))

	list, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Institution)
	assert.Equal(t, "Universidad de Chile", list[0].Institution.Name)
}
