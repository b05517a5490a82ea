package importer

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/core/domain"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"
)

var textureExts = mapset.NewSet(".png", ".jpg", ".jpeg")

type modelFiles struct {
	texture, object, material string
}

func (m modelFiles) complete() bool {
	return m.texture != "" && m.object != "" && m.material != ""
}

// ImportModels pairs the files in folder by base name (the part before the
// first dot) into texture, .obj and .mtl triples and registers each complete
// triple as a model.
func (im *Importer) ImportModels(ctx context.Context, folder string) (Report, error) {
	var rep Report

	files, err := readDir(folder)
	if err != nil {
		return rep, err
	}

	groups := make(map[string]*modelFiles)
	for _, f := range files {
		name := f.Name()
		ext := strings.ToLower(filepath.Ext(name))
		id := baseID(name)

		g, ok := groups[id]
		if !ok {
			g = &modelFiles{}
			groups[id] = g
		}
		switch {
		case textureExts.Contains(ext):
			g.texture = name
		case ext == ".obj":
			g.object = name
		case ext == ".mtl":
			g.material = name
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		g := groups[id]
		entry := log.WithFields(log.Fields{"model": id})
		if !g.complete() {
			entry.Warn("incomplete model triple, skipped")
			rep.Skipped++
			continue
		}

		var (
			model  domain.Model3D
			copied bool
		)
		for _, f := range []struct {
			kind domain.MediaKind
			name string
			dst  *string
		}{
			{domain.MediaMaterial, g.texture, &model.Texture},
			{domain.MediaObject, g.object, &model.Object},
			{domain.MediaMaterial, g.material, &model.Material},
		} {
			path, c, err := im.copyIn(ctx, f.kind, filepath.Join(folder, f.name))
			if err != nil {
				return rep, err
			}
			*f.dst = path
			copied = copied || c
		}

		created, err := im.media.UpsertModel(ctx, &model)
		if err != nil {
			return rep, err
		}
		if created || copied {
			entry.WithField("model_id", model.ID).Info("model imported")
			rep.Created++
		} else {
			entry.Info("model files already exist, skipped")
			rep.Skipped++
		}
	}

	log.WithFields(rep.Fields()).Info("models imported")
	return rep, nil
}

// ImportThumbnails stores one thumbnail per artifact; the file stem is the
// artifact id.
func (im *Importer) ImportThumbnails(ctx context.Context, folder string) (Report, error) {
	var rep Report

	files, err := readDir(folder)
	if err != nil {
		return rep, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		name := f.Name()
		entry := log.WithField("thumbnail", name)
		if _, err := strconv.ParseInt(baseID(name), 10, 64); err != nil {
			entry.Warn("thumbnail name is not an artifact id, skipped")
			rep.Failed++
			continue
		}

		path, copied, err := im.copyIn(ctx, domain.MediaThumbnail, filepath.Join(folder, name))
		if err != nil {
			return rep, err
		}
		_, created, err := im.media.UpsertThumbnail(ctx, path)
		if err != nil {
			return rep, err
		}

		if created || copied {
			entry.Info("thumbnail imported")
			rep.Created++
		} else {
			entry.Info("thumbnail already exists, skipped")
			rep.Skipped++
		}
	}

	log.WithFields(rep.Fields()).Info("thumbnails imported")
	return rep, nil
}

// ImportImages stores the marked image files of folder and links each to the
// artifact named by the first part of its file name.
func (im *Importer) ImportImages(ctx context.Context, folder string) (Report, error) {
	var rep Report

	files, err := readDir(folder)
	if err != nil {
		return rep, err
	}

	for _, f := range files {
		name := f.Name()
		if !isArtifactImage(name) {
			continue
		}

		id, err := strconv.ParseInt(nameSeparators.Split(name, 2)[0], 10, 64)
		if err != nil {
			log.WithField("image", name).Warn("image name does not start with an artifact id, skipped")
			rep.Failed++
			continue
		}

		exists, err := im.artifacts.Exists(ctx, id)
		if err != nil {
			return rep, err
		}
		if !exists {
			log.WithFields(log.Fields{"image": name, "artifact_id": id}).Warn("artifact not found, image skipped")
			rep.Skipped++
			continue
		}

		r, err := im.attachImages(ctx, id, folder, []string{name})
		rep.Add(r)
		if err != nil {
			return rep, err
		}
	}

	log.WithFields(rep.Fields()).Info("images imported")
	return rep, nil
}

// artifactImages attaches the marked files of <multimedia>/<id>/ to the
// artifact. A missing folder means the artifact has no images.
func (im *Importer) artifactImages(ctx context.Context, multimedia string, id int64) (Report, error) {
	dir := filepath.Join(multimedia, strconv.FormatInt(id, 10))

	files, err := readDir(dir)
	if errors.Is(err, domain.ErrSourceNotFound) {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, err
	}

	var names []string
	for _, f := range files {
		if isArtifactImage(f.Name()) {
			names = append(names, f.Name())
		}
	}
	return im.attachImages(ctx, id, dir, names)
}

func (im *Importer) attachImages(ctx context.Context, id int64, dir string, names []string) (Report, error) {
	var rep Report
	imageIDs := make([]int64, 0, len(names))

	for _, name := range names {
		path, copied, err := im.copyIn(ctx, domain.MediaImage, filepath.Join(dir, name))
		if err != nil {
			return rep, err
		}
		img, created, err := im.media.UpsertImage(ctx, path)
		if err != nil {
			return rep, err
		}
		imageIDs = append(imageIDs, img.ID)

		if created || copied {
			log.WithFields(log.Fields{"image": name, "artifact_id": id}).Info("image added")
			rep.Created++
		} else {
			log.WithFields(log.Fields{"image": name, "artifact_id": id}).Info("image already exists, skipped")
			rep.Skipped++
		}
	}

	if err := im.media.LinkImages(ctx, id, imageIDs); err != nil {
		return rep, err
	}
	return rep, nil
}
