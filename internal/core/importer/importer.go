// Package importer loads the catalog from CSV files and media folders.
//
// Every step is idempotent: reference rows are upserted by name, bridge rows
// ignore existing pairs, and media files already present in storage are not
// copied again. A step can therefore be re-run after a partial failure.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	log "github.com/sirupsen/logrus"
)

// Report counts the outcome of one import step.
type Report struct {
	Created int
	Skipped int
	Failed  int
}

func (r *Report) Add(o Report) {
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

func (r Report) Fields() log.Fields {
	return log.Fields{"created": r.Created, "skipped": r.Skipped, "failed": r.Failed}
}

// Sources locates the inputs of a full import run.
type Sources struct {
	TagsCSV            string
	CulturesCSV        string
	DescriptionsCSV    string
	InstitutionsCSV    string
	InstitutionsColumn int
	ShapeFolder        string
	ModelFolder        string
	ThumbnailsFolder   string
	MultimediaFolder   string
}

type Importer struct {
	refs      ports.ReferenceRepository
	bridges   ports.BridgeRepository
	media     ports.MediaRepository
	artifacts ports.ArtifactRepository
	storage   ports.FileStorage
}

func New(refs ports.ReferenceRepository, bridges ports.BridgeRepository, media ports.MediaRepository, artifacts ports.ArtifactRepository, storage ports.FileStorage) *Importer {
	return &Importer{refs: refs, bridges: bridges, media: media, artifacts: artifacts, storage: storage}
}

// imageMarkers select the multimedia files that become artifact images.
var imageMarkers = []string{"pat", "thumb", "flat"}

var nameSeparators = regexp.MustCompile(`[._]`)

func isArtifactImage(name string) bool {
	for _, part := range nameSeparators.Split(strings.ToLower(name), -1) {
		for _, m := range imageMarkers {
			if strings.Contains(part, m) {
				return true
			}
		}
	}
	return false
}

// baseID returns the part of a file name before its first dot.
func baseID(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	files := entries[:0]
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

// readCSV calls fn for every record. Rows whose first column is not an
// integer id (headers included) are logged and skipped.
func readCSV(path string, fn func(line int, id int64, record []string) error) (Report, error) {
	var rep Report

	f, err := openSource(path)
	if err != nil {
		return rep, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rep, nil
		}
		if err != nil {
			return rep, fmt.Errorf("read %s: %w", path, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil || len(record) < 2 {
			if line > 1 {
				log.WithFields(log.Fields{"file": path, "line": line}).Warn("malformed row, skipped")
				rep.Failed++
			}
			continue
		}
		if err := fn(line, id, record); err != nil {
			return rep, err
		}
	}
}

// copyIn stores a source file under kind unless a file with the same name is
// already there. It returns the storage path and whether a copy was made.
func (im *Importer) copyIn(ctx context.Context, kind domain.MediaKind, src string) (string, bool, error) {
	name := filepath.Base(src)
	if im.storage.Exists(kind, name) {
		return im.storage.Path(kind, name), false, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	path, err := im.storage.Save(ctx, kind, name, f)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
