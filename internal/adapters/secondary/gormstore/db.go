package gormstore

import (
	"context"
	"fmt"
	"time"

	"artifact-catalog-service/internal/config"
	"artifact-catalog-service/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the database handle shared by every repository.
// For PostgreSQL the connections come from a pgx pool.
type Store struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

// Open connects to the configured driver: postgres, mysql or sqlite.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	switch cfg.Driver {
	case "postgres", "":
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("create db pool: %w", err)
		}

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}), gcfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Store{db: db, pool: pool}, nil

	case "mysql":
		db, err := gorm.Open(mysql.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return configurePool(db, cfg)

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// A single writer avoids SQLITE_BUSY and keeps :memory: databases
		// on one connection.
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
		return configurePool(db, cfg)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// New wraps an existing handle, mostly for tests.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func configurePool(db *gorm.DB, cfg config.DatabaseConfig) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Store{db: db}, nil
}

// DB returns the gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Models lists every table owned by the catalog, in dependency order.
func Models() []any {
	return []any{
		&domain.Group{},
		&domain.User{},
		&domain.Shape{},
		&domain.Culture{},
		&domain.Tag{},
		&domain.Institution{},
		&domain.TagBridge{},
		&domain.CultureBridge{},
		&domain.ShapeBridge{},
		&domain.Thumbnail{},
		&domain.Model3D{},
		&domain.Artifact{},
		&domain.Image{},
		&domain.ArtifactRequester{},
	}
}

// AutoMigrate creates or updates the schema.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
