// Package daemon wires the persistence layer to the web service and owns the
// process lifecycle.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/config"
	"github.com/studyhive/studyhive/internal/db/dsn"
	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	addr       string
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(d.addr)
}

// openDB opens the configured database engine with gorm.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	default:
		return nil, config.ErrUnknownGormEngine
	}

	return gorm.Open(dialector, &gorm.Config{}) //nolint: wrapcheck
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupLike{},
		&models.GroupRating{},
		&models.VideoSession{},
		&models.ForumPost{},
		&models.ForumAnswer{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	if cfg.DevMode {
		seed(cfg, db)
	}

	return &Daemon{
		webService: web.New(cfg, db),
		addr:       fmt.Sprintf(":%d", cfg.Webserver.Port),
	}
}
