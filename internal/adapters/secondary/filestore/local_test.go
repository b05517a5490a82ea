package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"artifact-catalog-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.Save(ctx, domain.MediaThumbnail, "101.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "thumbnails/101.png", p)
	assert.True(t, s.Exists(domain.MediaThumbnail, "101.png"))
	assert.Equal(t, "/media/thumbnails/101.png", s.URL(p))

	rc, err := s.Open(p)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))
}

func TestLocalStorage_SaveCollisionGetsNewName(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	ctx := context.Background()

	first, err := s.Save(ctx, domain.MediaImage, "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, domain.MediaImage, "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "images/a_"))
	assert.True(t, strings.HasSuffix(second, ".jpg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	p, err := s.Save(context.Background(), domain.MediaObject, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "objects/passwd", p)

	_, err = s.Save(context.Background(), domain.MediaObject, "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidFilename)
}
