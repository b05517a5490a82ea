package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/adapters/primary/http/dto"
	ports "artifact-catalog-service/internal/core/ports/output"
	"artifact-catalog-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Multipart field names of the artifact form.
const (
	fieldDescription  = "description"
	fieldShape        = "id_shape"
	fieldCulture      = "id_culture"
	fieldTags         = "id_tags"
	fieldNewThumbnail = "new_thumbnail"
	fieldThumbnail    = "thumbnail"
	fieldNewTexture   = "model[new_texture]"
	fieldNewObject    = "model[new_object]"
	fieldNewMaterial  = "model[new_material]"
	fieldImages       = "images"
	fieldNewImages    = "new_images"
)

func (h *Handler) CreateArtifact(c *gin.Context) {
	in, closeAll, err := parseArtifactForm(c)
	defer closeAll()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	artifact, err := h.artifactSvc.Create(c.Request.Context(), in)
	if err != nil {
		log.WithError(err).Error("create artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToArtifactWriteResponse(artifact)})
}

func (h *Handler) UpdateArtifact(c *gin.Context) {
	h.updateArtifact(c, false)
}

func (h *Handler) PatchArtifact(c *gin.Context) {
	h.updateArtifact(c, true)
}

func (h *Handler) updateArtifact(c *gin.Context, partial bool) {
	id, err := parseArtifactID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	in, closeAll, err := parseArtifactForm(c)
	defer closeAll()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	artifact, err := h.artifactSvc.Update(c.Request.Context(), id, in, partial)
	if err != nil {
		log.WithError(err).WithField("artifact_id", id).Error("update artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToArtifactWriteResponse(artifact)})
}

// parseArtifactForm reads a multipart or urlencoded artifact form. The
// returned func closes every opened upload and is always safe to call.
func parseArtifactForm(c *gin.Context) (services.ArtifactInput, func(), error) {
	var (
		in      services.ArtifactInput
		closers []io.Closer
	)
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	if v, ok := c.GetPostForm(fieldDescription); ok {
		v = strings.TrimSpace(v)
		in.Description = &v
	}

	var err error
	if in.ShapeID, err = optionalID(c, fieldShape); err != nil {
		return in, closeAll, err
	}
	if in.CultureID, err = optionalID(c, fieldCulture); err != nil {
		return in, closeAll, err
	}

	if values, ok := c.GetPostFormArray(fieldTags); ok {
		in.TagsSet = true
		for _, v := range values {
			for _, part := range splitList(v) {
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return in, closeAll, &fieldError{field: fieldTags, err: errNotInteger}
				}
				in.TagIDs = append(in.TagIDs, id)
			}
		}
	}

	in.Thumbnail = path.Base(strings.TrimSpace(c.PostForm(fieldThumbnail)))
	if in.Thumbnail == "." || in.Thumbnail == "/" {
		in.Thumbnail = ""
	}
	for _, v := range c.PostFormArray(fieldImages) {
		for _, name := range splitList(v) {
			in.KeepImages = append(in.KeepImages, path.Base(name))
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return in, closeAll, nil
		}
		return in, closeAll, &fieldError{field: "form", err: err}
	}

	single := []struct {
		field string
		dst   **ports.Upload
	}{
		{fieldNewThumbnail, &in.NewThumbnail},
		{fieldNewTexture, &in.NewTexture},
		{fieldNewObject, &in.NewObject},
		{fieldNewMaterial, &in.NewMaterial},
	}
	for _, s := range single {
		files := form.File[s.field]
		if len(files) == 0 {
			continue
		}
		up, err := openUpload(files[0])
		if err != nil {
			return in, closeAll, &fieldError{field: s.field, err: err}
		}
		closers = append(closers, up.Content.(io.Closer))
		*s.dst = up
	}

	for _, fh := range form.File[fieldNewImages] {
		up, err := openUpload(fh)
		if err != nil {
			return in, closeAll, &fieldError{field: fieldNewImages, err: err}
		}
		closers = append(closers, up.Content.(io.Closer))
		in.NewImages = append(in.NewImages, *up)
	}

	return in, closeAll, nil
}

func optionalID(c *gin.Context, field string) (*int64, error) {
	v, ok := c.GetPostForm(field)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return nil, &fieldError{field: field, err: errNotInteger}
	}
	return &id, nil
}

func openUpload(fh *multipart.FileHeader) (*ports.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return &ports.Upload{Filename: fh.Filename, Content: f}, nil
}
