package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupEnv points the CLI at a fresh sqlite database and media root and
// returns the directory holding the import sources.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "catalog.db"))
	t.Setenv("MEDIA_ROOT", filepath.Join(dir, "media"))
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOGGER_LEVEL", "error")

	data := filepath.Join(dir, "data")
	writeFile(t, data, "tags.csv", "id,tags\n7,\"ritual, funerario\"\n")
	writeFile(t, data, "cultures.csv", "id,culture\n7,Diaguita\n")
	writeFile(t, data, "shapes/Vasija.txt", "7\n")
	writeFile(t, data, "models/7.png", "texture")
	writeFile(t, data, "models/7.obj", "object")
	writeFile(t, data, "models/7.mtl", "material")
	writeFile(t, data, "thumbnails/7.png", "thumb")
	writeFile(t, data, "descriptions.csv", "id,description\n7,Jarro pato\n")
	writeFile(t, data, "institutions.csv", "1,x,y,Museo Regional\n")
	writeFile(t, data, "extra/7_pat.jpg", "image")

	t.Setenv("TAGS_CSV_PATH", filepath.Join(data, "tags.csv"))
	t.Setenv("CULTURE_CSV_PATH", filepath.Join(data, "cultures.csv"))
	t.Setenv("DESCRIPTIONS_CSV_PATH", filepath.Join(data, "descriptions.csv"))
	t.Setenv("INSTITUTIONS_CSV_PATH", filepath.Join(data, "institutions.csv"))
	t.Setenv("SHAPE_FOLDER_PATH", filepath.Join(data, "shapes"))
	t.Setenv("MODEL_FOLDER_PATH", filepath.Join(data, "models"))
	t.Setenv("THUMBNAILS_FOLDER_PATH", filepath.Join(data, "thumbnails"))
	t.Setenv("MULTIMEDIA_FOLDER_PATH", filepath.Join(data, "multimedia"))

	return data
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestMigrateAndUsers(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = execute(t, "groups", "create")
	require.NoError(t, err)
	assert.Contains(t, out, "Funcionario")
	assert.Contains(t, out, "Administrador")

	out, err = execute(t, "users", "create",
		"--username", "jefe", "--email", "jefe@museo.cl", "--password", "s3cret",
		"--role", "AD", "--rut", "123456785", "--first-name", "Juana")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 1 (jefe, ADMINISTRADOR)")

	_, err = execute(t, "users", "create",
		"--username", "otro", "--email", "otro@museo.cl", "--password", "s3cret", "--rut", "123456789")
	assert.Error(t, err)

	_, err = execute(t, "users", "create", "--username", "sinclave", "--email", "x@museo.cl")
	assert.Error(t, err)
}

func TestImportSteps(t *testing.T) {
	data := setupEnv(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)

	out, err := execute(t, "import", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "created=")

	// Re-running a step creates nothing new.
	out, err = execute(t, "import", "tags")
	require.NoError(t, err)
	assert.Equal(t, "created=0 skipped=2 failed=0\n", out)

	out, err = execute(t, "import", "shapes", filepath.Join(data, "shapes", "Vasija.txt"))
	require.NoError(t, err)
	assert.Equal(t, "created=0 skipped=1 failed=0\n", out)

	out, err = execute(t, "import", "institutions", "--column", "3")
	require.NoError(t, err)
	assert.Equal(t, "created=0 skipped=1 failed=0\n", out)

	out, err = execute(t, "import", "images", filepath.Join(data, "extra"))
	require.NoError(t, err)
	assert.Equal(t, "created=1 skipped=0 failed=0\n", out)
}

func TestImportMissingSource(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)

	_, err = execute(t, "import", "cultures", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = execute(t, "import", "images")
	assert.Error(t, err)
}
