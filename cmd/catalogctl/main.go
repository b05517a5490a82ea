// Command catalogctl runs the catalog's administrative tasks: schema
// migration, bulk import of the source data and account management.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"artifact-catalog-service/internal/adapters/secondary/filestore"
	"artifact-catalog-service/internal/adapters/secondary/gormstore"
	"artifact-catalog-service/internal/config"
	"artifact-catalog-service/internal/core/importer"
	"artifact-catalog-service/internal/core/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg   *config.Config
	store *gormstore.Store
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	initLogger(cfg)

	store, err := gormstore.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	a.cfg, a.store = cfg, store
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

func (a *app) importer() (*importer.Importer, error) {
	storage, err := filestore.NewLocalStorage(a.cfg.Media.Root, a.cfg.Media.URL)
	if err != nil {
		return nil, err
	}
	return importer.New(
		gormstore.NewReferenceRepository(a.store),
		gormstore.NewBridgeRepository(a.store),
		gormstore.NewMediaRepository(a.store),
		gormstore.NewArtifactRepository(a.store),
		storage,
	), nil
}

func (a *app) users() *services.UserService {
	return services.NewUserService(gormstore.NewUserRepository(a.store), a.cfg.Auth.BcryptCost)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Administration tool for the artifact catalog",
		Long: `catalogctl manages the artifact catalog database.

It creates the schema, imports tags, cultures, shapes, 3D models,
thumbnails, descriptions, images and institutions from the source
folders, and creates staff groups and accounts.

Connection settings and default source paths come from the same
environment variables as the server.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newGroupsCmd(a))
	rootCmd.AddCommand(newUsersCmd(a))

	return rootCmd
}

// run executes one command line and releases the database afterwards.
func run(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	defer a.close()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		stop()
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
