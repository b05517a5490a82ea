package importer

import (
	"context"
	"errors"

	"artifact-catalog-service/internal/core/domain"

	log "github.com/sirupsen/logrus"
)

// ImportAll runs every step in dependency order: reference data and media
// first, then artifact assembly, then institutions. A step whose source is
// missing is logged and skipped; any other error stops the run.
func (im *Importer) ImportAll(ctx context.Context, src Sources) (Report, error) {
	steps := []struct {
		name string
		run  func() (Report, error)
	}{
		{"tags", func() (Report, error) { return im.ImportTags(ctx, src.TagsCSV) }},
		{"shapes", func() (Report, error) { return im.ImportShapes(ctx, src.ShapeFolder) }},
		{"cultures", func() (Report, error) { return im.ImportCultures(ctx, src.CulturesCSV) }},
		{"models", func() (Report, error) { return im.ImportModels(ctx, src.ModelFolder) }},
		{"thumbnails", func() (Report, error) { return im.ImportThumbnails(ctx, src.ThumbnailsFolder) }},
		{"descriptions", func() (Report, error) {
			return im.ImportDescriptions(ctx, src.DescriptionsCSV, src.MultimediaFolder)
		}},
		{"institutions", func() (Report, error) {
			return im.ImportInstitutions(ctx, src.InstitutionsCSV, src.InstitutionsColumn)
		}},
	}

	var total Report
	for _, step := range steps {
		rep, err := step.run()
		total.Add(rep)

		if errors.Is(err, domain.ErrSourceNotFound) {
			log.WithError(err).WithField("step", step.name).Error("source not found, step skipped")
			continue
		}
		if err != nil {
			return total, err
		}
		log.WithFields(rep.Fields()).WithField("step", step.name).Info("import step finished")
	}

	log.WithFields(total.Fields()).Info("import finished")
	return total, nil
}
