package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/core/domain"

	log "github.com/sirupsen/logrus"
)

// ImportTags reads rows of (artifact id, "name, name, ...") and links each
// tag to the artifact id through the tag bridge.
func (im *Importer) ImportTags(ctx context.Context, csvPath string) (Report, error) {
	return im.importNamed(ctx, csvPath, domain.RefTag, domain.BridgeTag)
}

// ImportCultures reads rows of (artifact id, culture names).
func (im *Importer) ImportCultures(ctx context.Context, csvPath string) (Report, error) {
	return im.importNamed(ctx, csvPath, domain.RefCulture, domain.BridgeCulture)
}

func (im *Importer) importNamed(ctx context.Context, csvPath string, kind domain.RefKind, bridge domain.BridgeKind) (Report, error) {
	// Group artifact ids by name so every name costs one upsert and one
	// bulk link.
	var order []string
	ids := make(map[string][]int64)

	rep, err := readCSV(csvPath, func(_ int, id int64, record []string) error {
		for _, name := range strings.Split(record[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := ids[name]; !ok {
				order = append(order, name)
			}
			ids[name] = append(ids[name], id)
		}
		return nil
	})
	if err != nil {
		return rep, err
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		ref, created, err := im.refs.Upsert(ctx, kind, name)
		if err != nil {
			return rep, err
		}
		if created {
			log.WithFields(log.Fields{"kind": kind, "name": name}).Info("reference created")
		}

		n, err := im.bridges.Link(ctx, bridge, ref.ID, ids[name])
		if err != nil {
			return rep, err
		}
		rep.Created += n
		rep.Skipped += len(ids[name]) - n

		entry := log.WithFields(log.Fields{"kind": kind, "name": name, "added": n})
		if n < len(ids[name]) {
			entry.WithField("skipped", len(ids[name])-n).Info("links already exist, skipped")
		} else {
			entry.Info("links added")
		}
	}

	log.WithFields(rep.Fields()).WithField("kind", kind).Info("import finished")
	return rep, nil
}

// ImportShape reads one shape file: its stem is the shape name and each line
// holds an artifact id.
func (im *Importer) ImportShape(ctx context.Context, filePath string) (Report, error) {
	var rep Report

	f, err := openSource(filePath)
	if err != nil {
		return rep, err
	}
	defer f.Close()

	base := filepath.Base(filePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	var ids []int64
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			log.WithFields(log.Fields{"file": filePath, "line": line}).Warn("malformed artifact id, skipped")
			rep.Failed++
			continue
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("read %s: %w", filePath, err)
	}

	shape, created, err := im.refs.Upsert(ctx, domain.RefShape, name)
	if err != nil {
		return rep, err
	}
	if created {
		log.WithField("shape", name).Info("shape created")
	}

	n, err := im.bridges.Link(ctx, domain.BridgeShape, shape.ID, ids)
	if err != nil {
		return rep, err
	}
	rep.Created += n
	rep.Skipped += len(ids) - n

	log.WithFields(rep.Fields()).WithField("shape", name).Info("shape imported")
	return rep, nil
}

// ImportShapes imports every .txt file in folder.
func (im *Importer) ImportShapes(ctx context.Context, folder string) (Report, error) {
	var rep Report

	files, err := readDir(folder)
	if err != nil {
		return rep, err
	}
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f.Name()), ".txt") {
			continue
		}
		r, err := im.ImportShape(ctx, filepath.Join(folder, f.Name()))
		rep.Add(r)
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// ImportInstitutions creates one institution per row, reading the name from
// the given zero-based column.
func (im *Importer) ImportInstitutions(ctx context.Context, csvPath string, column int) (Report, error) {
	var rep Report
	if column < 0 {
		return rep, fmt.Errorf("%w: column %d", domain.ErrMalformedRow, column)
	}

	f, err := openSource(csvPath)
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
			break
		}
		if err != nil {
			return rep, fmt.Errorf("read %s: %w", csvPath, err)
		}
		if column >= len(record) || strings.TrimSpace(record[column]) == "" {
			log.WithFields(log.Fields{"file": csvPath, "line": line}).Warn("row has no institution name, skipped")
			rep.Failed++
			continue
		}

		name := strings.TrimSpace(record[column])
		_, created, err := im.refs.Upsert(ctx, domain.RefInstitution, name)
		if err != nil {
			return rep, err
		}
		if created {
			log.WithField("institution", name).Info("institution created")
			rep.Created++
		} else {
			log.WithField("institution", name).Info("institution already exists, skipped")
			rep.Skipped++
		}
	}

	log.WithFields(rep.Fields()).Info("institutions imported")
	return rep, nil
}
