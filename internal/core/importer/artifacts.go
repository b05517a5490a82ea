package importer

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"artifact-catalog-service/internal/core/domain"

	log "github.com/sirupsen/logrus"
)

// ImportDescriptions assembles artifacts from rows of (artifact id,
// description) using the media and bridge rows imported before. Rows without
// a model are skipped; a missing thumbnail leaves the artifact without one.
func (im *Importer) ImportDescriptions(ctx context.Context, csvPath, multimediaFolder string) (Report, error) {
	var created Report

	rep, err := readCSV(csvPath, func(_ int, id int64, record []string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := im.assemble(ctx, id, strings.TrimSpace(record[1]), multimediaFolder)
		created.Add(r)
		return err
	})
	rep.Add(created)
	if err != nil {
		return rep, err
	}

	if rep.Created > 0 {
		if err := im.artifacts.SyncIDSequence(ctx); err != nil {
			return rep, err
		}
	}

	log.WithFields(rep.Fields()).Info("descriptions imported")
	return rep, nil
}

func (im *Importer) assemble(ctx context.Context, id int64, description, multimediaFolder string) (Report, error) {
	var rep Report
	entry := log.WithField("artifact_id", id)

	exists, err := im.artifacts.Exists(ctx, id)
	if err != nil {
		return rep, err
	}
	if exists {
		entry.Info("artifact already exists, skipped")
		rep.Skipped++
		return rep, nil
	}

	model, err := im.media.FindModelFor(ctx, id)
	if errors.Is(err, domain.ErrModelNotFound) {
		entry.Warn("no model for artifact, skipped")
		rep.Skipped++
		return rep, nil
	}
	if err != nil {
		return rep, err
	}

	artifact := &domain.Artifact{ID: id, Description: description, ModelID: &model.ID}

	thumb, err := im.media.FindThumbnailFor(ctx, id)
	switch {
	case err == nil:
		artifact.ThumbnailID = &thumb.ID
	case errors.Is(err, domain.ErrThumbnailNotFound):
		entry.Info("no thumbnail for artifact")
	default:
		return rep, err
	}

	if artifact.ShapeID, err = im.firstRef(ctx, domain.BridgeShape, id); err != nil {
		return rep, err
	}
	if artifact.CultureID, err = im.firstRef(ctx, domain.BridgeCulture, id); err != nil {
		return rep, err
	}
	if artifact.ShapeID == nil || artifact.CultureID == nil {
		entry.WithFields(log.Fields{
			"has_shape":   artifact.ShapeID != nil,
			"has_culture": artifact.CultureID != nil,
		}).Warn("artifact imported without shape or culture")
	}

	if utf8.RuneCountInString(artifact.Description) > domain.MaxDescriptionLength {
		entry.Warn("description truncated")
		artifact.Description = string([]rune(artifact.Description)[:domain.MaxDescriptionLength])
	}

	tagIDs, err := im.bridges.RefIDs(ctx, domain.BridgeTag, id)
	if err != nil {
		return rep, err
	}

	if err := im.artifacts.Create(ctx, artifact); err != nil {
		if errors.Is(err, domain.ErrArtifactExists) {
			entry.Info("artifact already exists, skipped")
			rep.Skipped++
			return rep, nil
		}
		return rep, err
	}
	if err := im.artifacts.ReplaceTags(ctx, id, tagIDs); err != nil {
		return rep, err
	}
	entry.WithField("tags", len(tagIDs)).Info("artifact added")
	rep.Created++

	if _, err := im.artifactImages(ctx, multimediaFolder, id); err != nil {
		return rep, err
	}
	return rep, nil
}

func (im *Importer) firstRef(ctx context.Context, kind domain.BridgeKind, id int64) (*int64, error) {
	ids, err := im.bridges.RefIDs(ctx, kind, id)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	if len(ids) > 1 {
		log.WithFields(log.Fields{"artifact_id": id, "kind": kind, "count": len(ids)}).Warn("several bridge rows, using the first")
	}
	return &ids[0], nil
}
