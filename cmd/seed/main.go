// Command seed applies migrations, loads the course catalog and makes sure the
// super-admin account exists. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/yigit/edudirectory/internal/app/migrations"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/bootstrap"
	"github.com/yigit/edudirectory/internal/config"
	"github.com/yigit/edudirectory/internal/db"
	"github.com/yigit/edudirectory/internal/pkg/logger"
	"github.com/yigit/edudirectory/internal/seed"
)

func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to the config file")
	catalogPath := flag.String("catalog", "", "course catalog JSON file (defaults to the built-in catalog)")
	batchSize := flag.Int("batch", seed.DefaultBatchSize, "courses per upsert statement")
	flag.Parse()

	cfg, err := config.LoadDatabaseConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	bootstrap.ConfigureLogger(cfg)

	entries, err := loadCatalog(*catalogPath)
	if err != nil {
		logger.Fatal().Err(err).Str("catalog", *catalogPath).Msg("Failed to load course catalog")
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := migrations.NewMigrator(database.Pool).Migrate(ctx, migrations.Files()); err != nil {
		logger.Error().Err(err).Msg("Database migration error")
		exit(database, 1)
	}

	res, err := seed.Courses(ctx, repositories.NewCourseRepository(database.Pool), entries, *batchSize)
	if err != nil {
		logger.Error().Err(err).Msg("Course seeding failed")
		exit(database, 1)
	}
	logger.Info().
		Int("read", res.Read).
		Int64("upserted", res.Upserted).
		Int("skipped", res.Skipped).
		Msg("Course catalog seeded")

	if cfg.Auth.SuperAdminEmail == "" {
		logger.Warn().Msg("No super-admin email configured, skipping account setup")
		return
	}
	err = seed.SuperAdmin(ctx,
		repositories.NewIdentityRepository(database.Pool),
		repositories.NewProfileRepository(database.Pool),
		cfg.Auth.SuperAdminEmail,
		cfg.Auth.SuperAdminPassword,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Super-admin setup failed")
		exit(database, 1)
	}
	logger.Info().Str("email", cfg.Auth.SuperAdminEmail).Msg("Super-admin account ready")
}

func loadCatalog(path string) ([]seed.CatalogEntry, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.LoadCatalog(f)
}

// exit closes the pool first since deferred calls do not run on os.Exit
func exit(database *db.PostgresDB, code int) {
	database.Close()
	os.Exit(code)
}
