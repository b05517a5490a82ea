package services

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"
)

// ArtifactInput carries a create or update request. Nil pointers mean the
// field was not sent.
type ArtifactInput struct {
	Description *string
	ShapeID     *int64
	CultureID   *int64

	// TagIDs replaces the full tag set when TagsSet is true.
	TagIDs  []int64
	TagsSet bool

	// NewThumbnail wins over Thumbnail, the name of an already stored file.
	// With neither the thumbnail is cleared.
	NewThumbnail *ports.Upload
	Thumbnail    string

	NewTexture  *ports.Upload
	NewObject   *ports.Upload
	NewMaterial *ports.Upload

	// KeepImages names stored images that stay linked; NewImages are added.
	// Every other image is unlinked.
	KeepImages []string
	NewImages  []ports.Upload
}

type ArtifactService struct {
	artifacts ports.ArtifactRepository
	refs      ports.ReferenceRepository
	media     ports.MediaRepository
	storage   ports.FileStorage
}

func NewArtifactService(artifacts ports.ArtifactRepository, refs ports.ReferenceRepository, media ports.MediaRepository, storage ports.FileStorage) *ArtifactService {
	return &ArtifactService{artifacts: artifacts, refs: refs, media: media, storage: storage}
}

func (s *ArtifactService) Create(ctx context.Context, in ArtifactInput) (*domain.Artifact, error) {
	return s.save(ctx, nil, in, false)
}

// Update applies in to an existing artifact. With partial set, scalar fields
// that were not sent keep their current value.
func (s *ArtifactService) Update(ctx context.Context, id int64, in ArtifactInput, partial bool) (*domain.Artifact, error) {
	current, err := s.artifacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, current, in, partial)
}

// resolved holds everything checked before the first write.
type resolved struct {
	tags      []domain.Tag
	thumbnail *domain.Thumbnail
	keep      []domain.Image
}

func (s *ArtifactService) save(ctx context.Context, current *domain.Artifact, in ArtifactInput, partial bool) (*domain.Artifact, error) {
	artifact := &domain.Artifact{}
	if current != nil {
		*artifact = *current
	}
	optional := partial && current != nil

	if err := s.applyScalars(ctx, artifact, in, optional); err != nil {
		return nil, err
	}

	hasModel := current != nil && current.Model != nil
	if !hasModel && (in.NewTexture == nil || in.NewObject == nil || in.NewMaterial == nil) {
		return nil, domain.ErrModelFilesRequired
	}

	res, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	// Phase 1: scalar columns, so new artifacts get an id.
	if current == nil {
		if err := s.artifacts.Create(ctx, artifact); err != nil {
			return nil, err
		}
	} else if err := s.artifacts.Update(ctx, artifact); err != nil {
		return nil, err
	}

	if err := s.reconcileThumbnail(ctx, artifact, in, res); err != nil {
		return nil, err
	}
	if err := s.reconcileModel(ctx, artifact, current, in); err != nil {
		return nil, err
	}
	if err := s.reconcileImages(ctx, artifact.ID, in, res); err != nil {
		return nil, err
	}
	if in.TagsSet {
		ids := make([]int64, 0, len(res.tags))
		for _, t := range res.tags {
			ids = append(ids, t.ID)
		}
		if err := s.artifacts.ReplaceTags(ctx, artifact.ID, ids); err != nil {
			return nil, err
		}
	}

	// Phase 2: media and relation columns.
	if err := s.artifacts.Update(ctx, artifact); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"artifact_id": artifact.ID,
		"created":     current == nil,
	}).Info("artifact saved")

	return s.artifacts.GetByID(ctx, artifact.ID)
}

func (s *ArtifactService) applyScalars(ctx context.Context, artifact *domain.Artifact, in ArtifactInput, optional bool) error {
	switch {
	case in.Description != nil:
		artifact.Description = *in.Description
	case !optional:
		return domain.ErrDescriptionRequired
	}
	if err := artifact.Validate(); err != nil {
		return err
	}

	switch {
	case in.ShapeID != nil:
		shape, err := s.refs.Get(ctx, domain.RefShape, *in.ShapeID)
		if err != nil {
			return err
		}
		artifact.ShapeID = &shape.ID
	case !optional:
		return domain.ErrShapeRequired
	}

	switch {
	case in.CultureID != nil:
		culture, err := s.refs.Get(ctx, domain.RefCulture, *in.CultureID)
		if err != nil {
			return err
		}
		artifact.CultureID = &culture.ID
	case !optional:
		return domain.ErrCultureRequired
	}

	return nil
}

// resolve looks up every referenced row so a bad reference fails before
// anything is written.
func (s *ArtifactService) resolve(ctx context.Context, in ArtifactInput) (*resolved, error) {
	res := &resolved{}

	if in.TagsSet {
		ids := mapset.NewThreadUnsafeSet(in.TagIDs...).ToSlice()
		tags, err := s.refs.GetTags(ctx, ids)
		if err != nil {
			return nil, err
		}
		res.tags = tags
	}

	if in.NewThumbnail == nil && in.Thumbnail != "" {
		thumb, err := s.media.GetThumbnailByPath(ctx, s.storage.Path(domain.MediaThumbnail, in.Thumbnail))
		if err != nil {
			return nil, err
		}
		res.thumbnail = thumb
	}

	if len(in.KeepImages) > 0 {
		paths := mapset.NewThreadUnsafeSet[string]()
		for _, name := range in.KeepImages {
			paths.Add(s.storage.Path(domain.MediaImage, name))
		}
		images, err := s.media.GetImagesByPaths(ctx, paths.ToSlice())
		if err != nil {
			return nil, err
		}
		if len(images) != paths.Cardinality() {
			return nil, domain.ErrImageNotFound
		}
		res.keep = images
	}

	return res, nil
}

func (s *ArtifactService) reconcileThumbnail(ctx context.Context, artifact *domain.Artifact, in ArtifactInput, res *resolved) error {
	switch {
	case in.NewThumbnail != nil:
		path, err := s.storage.Save(ctx, domain.MediaThumbnail, in.NewThumbnail.Filename, in.NewThumbnail.Content)
		if err != nil {
			return fmt.Errorf("store thumbnail: %w", err)
		}
		thumb, _, err := s.media.UpsertThumbnail(ctx, path)
		if err != nil {
			return err
		}
		artifact.ThumbnailID = &thumb.ID
	case res.thumbnail != nil:
		artifact.ThumbnailID = &res.thumbnail.ID
	default:
		artifact.ThumbnailID = nil
	}
	artifact.Thumbnail = nil
	return nil
}

func (s *ArtifactService) reconcileModel(ctx context.Context, artifact, current *domain.Artifact, in ArtifactInput) error {
	if in.NewTexture == nil && in.NewObject == nil && in.NewMaterial == nil {
		return nil
	}

	var triple domain.Model3D
	if current != nil && current.Model != nil {
		triple = domain.Model3D{Texture: current.Model.Texture, Object: current.Model.Object, Material: current.Model.Material}
	}

	uploads := []struct {
		upload *ports.Upload
		kind   domain.MediaKind
		dst    *string
	}{
		{in.NewTexture, domain.MediaMaterial, &triple.Texture},
		{in.NewObject, domain.MediaObject, &triple.Object},
		{in.NewMaterial, domain.MediaMaterial, &triple.Material},
	}
	for _, u := range uploads {
		if u.upload == nil {
			continue
		}
		path, err := s.storage.Save(ctx, u.kind, u.upload.Filename, u.upload.Content)
		if err != nil {
			return fmt.Errorf("store model file: %w", err)
		}
		*u.dst = path
	}

	if _, err := s.media.UpsertModel(ctx, &triple); err != nil {
		return err
	}
	artifact.ModelID = &triple.ID
	artifact.Model = nil
	return nil
}

func (s *ArtifactService) reconcileImages(ctx context.Context, artifactID int64, in ArtifactInput, res *resolved) error {
	if _, err := s.media.UnlinkImages(ctx, artifactID); err != nil {
		return err
	}

	ids := make([]int64, 0, len(res.keep)+len(in.NewImages))
	for _, img := range res.keep {
		ids = append(ids, img.ID)
	}

	for _, up := range in.NewImages {
		path, err := s.storage.Save(ctx, domain.MediaImage, up.Filename, up.Content)
		if err != nil {
			return fmt.Errorf("store image: %w", err)
		}
		img, _, err := s.media.UpsertImage(ctx, path)
		if err != nil {
			return err
		}
		ids = append(ids, img.ID)
	}

	return s.media.LinkImages(ctx, artifactID, ids)
}
