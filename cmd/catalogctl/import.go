package main

import (
	"context"
	"fmt"

	"artifact-catalog-service/internal/core/importer"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import catalog data from CSV files and media folders",
		Long: `Import catalog data. Every step can be re-run: rows and files that
already exist are skipped. A path argument overrides the configured
default source.`,
	}

	cmd.AddCommand(
		importStep(a, "tags [csv]", "Link tags to artifact ids", func(a *app) string { return a.cfg.Import.TagsCSV },
			func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error) {
				return im.ImportTags(ctx, src)
			}),
		importStep(a, "cultures [csv]", "Link cultures to artifact ids", func(a *app) string { return a.cfg.Import.CulturesCSV },
			func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error) {
				return im.ImportCultures(ctx, src)
			}),
		importStep(a, "models [folder]", "Register texture, object and material triples", func(a *app) string { return a.cfg.Import.ModelFolder },
			func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error) {
				return im.ImportModels(ctx, src)
			}),
		importStep(a, "thumbnails [folder]", "Store artifact thumbnails", func(a *app) string { return a.cfg.Import.ThumbnailsFolder },
			func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error) {
				return im.ImportThumbnails(ctx, src)
			}),
		importStep(a, "descriptions [csv]", "Assemble artifacts from descriptions and imported media", func(a *app) string { return a.cfg.Import.DescriptionsCSV },
			func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error) {
				return im.ImportDescriptions(ctx, src, a.cfg.Import.MultimediaFolder)
			}),
		newImportShapesCmd(a),
		newImportInstitutionsCmd(a),
		newImportImagesCmd(a),
		newImportAllCmd(a),
	)

	return cmd
}

type importFunc func(ctx context.Context, im *importer.Importer, src string) (importer.Report, error)

// importStep builds a subcommand that takes one optional source path.
func importStep(a *app, use, short string, defaultSrc func(*app) string, fn importFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := defaultSrc(a)
			if len(args) == 1 {
				src = args[0]
			}
			return runImport(cmd, a, func(im *importer.Importer) (importer.Report, error) {
				return fn(cmd.Context(), im, src)
			})
		},
	}
}

func newImportShapesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes [file...]",
		Short: "Link shapes to artifact ids, one shape per .txt file",
		Long: `Import shape files. Each file is named after its shape and lists one
artifact id per line. Without arguments every .txt file of the configured
shape folder is imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, func(im *importer.Importer) (importer.Report, error) {
				if len(args) == 0 {
					return im.ImportShapes(cmd.Context(), a.cfg.Import.ShapeFolder)
				}
				var total importer.Report
				for _, file := range args {
					rep, err := im.ImportShape(cmd.Context(), file)
					total.Add(rep)
					if err != nil {
						return total, err
					}
				}
				return total, nil
			})
		},
	}
}

func newImportInstitutionsCmd(a *app) *cobra.Command {
	var column int

	cmd := &cobra.Command{
		Use:   "institutions [csv]",
		Short: "Create institutions from a CSV column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.cfg.Import.InstitutionsCSV
			if len(args) == 1 {
				src = args[0]
			}
			if !cmd.Flags().Changed("column") {
				column = a.cfg.Import.InstitutionsColumn
			}
			return runImport(cmd, a, func(im *importer.Importer) (importer.Report, error) {
				return im.ImportInstitutions(cmd.Context(), src, column)
			})
		},
	}

	cmd.Flags().IntVar(&column, "column", 3, "Zero-based column holding the institution name")

	return cmd
}

func newImportImagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "images <folder>",
		Short: "Attach marked image files to existing artifacts",
		Long: `Attach images to artifacts that already exist. Only files whose name
contains one of the markers pat, thumb or flat are imported; the leading
number of the file name is the artifact id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, func(im *importer.Importer) (importer.Report, error) {
				return im.ImportImages(cmd.Context(), args[0])
			})
		},
	}
}

func newImportAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every import step in order from the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := importer.Sources{
				TagsCSV:            a.cfg.Import.TagsCSV,
				CulturesCSV:        a.cfg.Import.CulturesCSV,
				DescriptionsCSV:    a.cfg.Import.DescriptionsCSV,
				InstitutionsCSV:    a.cfg.Import.InstitutionsCSV,
				InstitutionsColumn: a.cfg.Import.InstitutionsColumn,
				ShapeFolder:        a.cfg.Import.ShapeFolder,
				ModelFolder:        a.cfg.Import.ModelFolder,
				ThumbnailsFolder:   a.cfg.Import.ThumbnailsFolder,
				MultimediaFolder:   a.cfg.Import.MultimediaFolder,
			}
			return runImport(cmd, a, func(im *importer.Importer) (importer.Report, error) {
				return im.ImportAll(cmd.Context(), src)
			})
		},
	}
}

func runImport(cmd *cobra.Command, a *app, fn func(*importer.Importer) (importer.Report, error)) error {
	im, err := a.importer()
	if err != nil {
		return err
	}
	rep, err := fn(im)
	fmt.Fprintf(cmd.OutOrStdout(), "created=%d skipped=%d failed=%d\n", rep.Created, rep.Skipped, rep.Failed)
	return err
}
