package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"artifact-catalog-service/internal/adapters/secondary/filestore"
	"artifact-catalog-service/internal/adapters/secondary/gormstore"
	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *gormstore.Store
	im    *Importer
	data  string
	src   Sources
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	media, err := filestore.NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	data := t.TempDir()
	im := New(
		gormstore.NewReferenceRepository(store),
		gormstore.NewBridgeRepository(store),
		gormstore.NewMediaRepository(store),
		gormstore.NewArtifactRepository(store),
		media,
	)

	writeFile(t, filepath.Join(data, "tags.csv"), "id,tags\n101,\"ritual, funerario\"\n102,ritual\n")
	writeFile(t, filepath.Join(data, "cultures.csv"), "101,Diaguita\n102,Inca\n")
	writeFile(t, filepath.Join(data, "shapes", "Vasija.txt"), "101\n102\n\n")
	writeFile(t, filepath.Join(data, "shapes", "notes.md"), "ignored")
	writeFile(t, filepath.Join(data, "models", "101.png"), "texture")
	writeFile(t, filepath.Join(data, "models", "101.obj"), "object")
	writeFile(t, filepath.Join(data, "models", "101.mtl"), "material")
	writeFile(t, filepath.Join(data, "models", "102.png"), "lonely texture")
	writeFile(t, filepath.Join(data, "thumbnails", "101.png"), "thumb")
	writeFile(t, filepath.Join(data, "descriptions.csv"), "101,  Ceramic bowl \n102,No model here\n")
	writeFile(t, filepath.Join(data, "multimedia", "101", "101_pat.jpg"), "pattern")
	writeFile(t, filepath.Join(data, "multimedia", "101", "101_other.jpg"), "not marked")
	writeFile(t, filepath.Join(data, "institutions.csv"), "a,b,c,Universidad de Chile\na,b,c,Museo Regional\n")

	return &fixture{
		store: store,
		im:    im,
		data:  data,
		src: Sources{
			TagsCSV:            filepath.Join(data, "tags.csv"),
			CulturesCSV:        filepath.Join(data, "cultures.csv"),
			DescriptionsCSV:    filepath.Join(data, "descriptions.csv"),
			InstitutionsCSV:    filepath.Join(data, "institutions.csv"),
			InstitutionsColumn: 3,
			ShapeFolder:        filepath.Join(data, "shapes"),
			ModelFolder:        filepath.Join(data, "models"),
			ThumbnailsFolder:   filepath.Join(data, "thumbnails"),
			MultimediaFolder:   filepath.Join(data, "multimedia"),
		},
	}
}

func TestImportTags_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rep, err := f.im.ImportTags(ctx, f.src.TagsCSV)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Created)

	tags := testutil.CountRows(t, f.store, &domain.Tag{})
	links := testutil.CountRows(t, f.store, &domain.TagBridge{})
	assert.Equal(t, int64(2), tags)
	assert.Equal(t, int64(3), links)

	rep, err = f.im.ImportTags(ctx, f.src.TagsCSV)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Created)
	assert.Equal(t, 3, rep.Skipped)
	assert.Equal(t, tags, testutil.CountRows(t, f.store, &domain.Tag{}))
	assert.Equal(t, links, testutil.CountRows(t, f.store, &domain.TagBridge{}))
}

func TestImportCulturesAndShapes_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.im.ImportCultures(ctx, f.src.CulturesCSV)
		require.NoError(t, err)
		_, err = f.im.ImportShapes(ctx, f.src.ShapeFolder)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(2), testutil.CountRows(t, f.store, &domain.Culture{}))
	assert.Equal(t, int64(2), testutil.CountRows(t, f.store, &domain.CultureBridge{}))
	assert.Equal(t, int64(1), testutil.CountRows(t, f.store, &domain.Shape{}))
	assert.Equal(t, int64(2), testutil.CountRows(t, f.store, &domain.ShapeBridge{}))
}

func TestImportModels_OnlyCompleteTriples(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rep, err := f.im.ImportModels(ctx, f.src.ModelFolder)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Created)
	assert.Equal(t, 1, rep.Skipped)

	rep, err = f.im.ImportModels(ctx, f.src.ModelFolder)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Created)
	assert.Equal(t, int64(1), testutil.CountRows(t, f.store, &domain.Model3D{}))
}

func TestImportMissingSource(t *testing.T) {
	f := newFixture(t)

	_, err := f.im.ImportTags(context.Background(), filepath.Join(f.data, "nope.csv"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)

	_, err = f.im.ImportThumbnails(context.Background(), filepath.Join(f.data, "nope"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestImportAll_AssemblesArtifact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.im.ImportAll(ctx, f.src)
	require.NoError(t, err)

	artifact, err := gormstore.NewArtifactRepository(f.store).GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Ceramic bowl", artifact.Description)
	require.NotNil(t, artifact.Culture)
	assert.Equal(t, "Diaguita", artifact.Culture.Name)
	require.NotNil(t, artifact.Shape)
	assert.Equal(t, "Vasija", artifact.Shape.Name)
	require.NotNil(t, artifact.Thumbnail)
	assert.Equal(t, "thumbnails/101.png", artifact.Thumbnail.Path)
	require.NotNil(t, artifact.Model)
	assert.Equal(t, "objects/101.obj", artifact.Model.Object)
	assert.ElementsMatch(t, []string{"ritual", "funerario"}, artifact.TagNames())
	require.Len(t, artifact.Images, 1)
	assert.Equal(t, "images/101_pat.jpg", artifact.Images[0].Path)

	_, err = gormstore.NewArtifactRepository(f.store).GetByID(ctx, 102)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "rows without a model are skipped")

	assert.Equal(t, int64(2), testutil.CountRows(t, f.store, &domain.Institution{}))

	// A second run changes nothing.
	counts := func() []int64 {
		return []int64{
			testutil.CountRows(t, f.store, &domain.Artifact{}),
			testutil.CountRows(t, f.store, &domain.Tag{}),
			testutil.CountRows(t, f.store, &domain.TagBridge{}),
			testutil.CountRows(t, f.store, &domain.Image{}),
			testutil.CountRows(t, f.store, &domain.Thumbnail{}),
			testutil.CountRows(t, f.store, &domain.Institution{}),
		}
	}
	before := counts()
	_, err = f.im.ImportAll(ctx, f.src)
	require.NoError(t, err)
	assert.Equal(t, before, counts())
}

func TestImportAll_MissingSourceContinues(t *testing.T) {
	f := newFixture(t)
	f.src.TagsCSV = filepath.Join(f.data, "missing.csv")

	_, err := f.im.ImportAll(context.Background(), f.src)
	require.NoError(t, err)
	assert.Equal(t, int64(0), testutil.CountRows(t, f.store, &domain.Tag{}))
	assert.Equal(t, int64(1), testutil.CountRows(t, f.store, &domain.Artifact{}))
}

func TestIsArtifactImage(t *testing.T) {
	assert.True(t, isArtifactImage("101_pat.jpg"))
	assert.True(t, isArtifactImage("101.thumbnail.png"))
	assert.True(t, isArtifactImage("101_FLAT.JPG"))
	assert.False(t, isArtifactImage("101_side.jpg"))
}
