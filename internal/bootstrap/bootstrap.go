package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/edudirectory/internal/app/controllers"
	appMigrations "github.com/yigit/edudirectory/internal/app/migrations"
	appRepos "github.com/yigit/edudirectory/internal/app/repositories"
	appRoutes "github.com/yigit/edudirectory/internal/app/routes"
	appServices "github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/config"
	"github.com/yigit/edudirectory/internal/db"
	appMiddleware "github.com/yigit/edudirectory/internal/middleware"
	pkgAuth "github.com/yigit/edudirectory/internal/pkg/auth"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
	"github.com/yigit/edudirectory/internal/pkg/logger"
	"github.com/yigit/edudirectory/internal/pkg/mediastore"
	"github.com/yigit/edudirectory/internal/pkg/pdfcheck"
	"github.com/yigit/edudirectory/internal/pkg/tokenstore"
)

// UploadsPath is the URL prefix the local media driver is served under
const UploadsPath = "/uploads"

// RevocationPurger removes revocation records of tokens that expired anyway
type RevocationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	MediaStore  mediastore.Store
	Revocations tokenstore.Store
	// Purger is nil when revocations expire on their own
	Purger RevocationPurger

	AuthService       *appServices.AuthService
	UserService       appServices.UserService
	StateService      appServices.StateService
	CityService       appServices.CityService
	UniversityService appServices.UniversityService
	CollegeService    appServices.CollegeService
	CourseService     appServices.CourseService
	MediaService      appServices.MediaService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers

	// Closers are released on shutdown, after the HTTP server stopped
	Closers []io.Closer
	Logger  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	ConfigureLogger(cfg)

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConfigureLogger applies the logging section of cfg to the global logger
func ConfigureLogger(cfg *config.Config) {
	logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// NewMediaStore builds the asset store selected by the media driver
func NewMediaStore(cfg *config.Config) (mediastore.Store, error) {
	switch cfg.Media.Driver {
	case config.MediaDriverCloudinary:
		c := cfg.Media.Cloudinary
		return mediastore.NewCloudinaryStore(mediastore.CloudinaryConfig{
			CloudName: c.CloudName,
			APIKey:    c.APIKey,
			APISecret: c.APISecret,
		})
	case config.MediaDriverSpaces:
		s := cfg.Media.Spaces
		return mediastore.NewSpacesStore(mediastore.SpacesConfig{
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			Bucket:    s.Bucket,
			Region:    s.Region,
			Endpoint:  s.Endpoint,
			CDNURL:    s.CDNURL,
		})
	case config.MediaDriverLocal:
		return mediastore.NewLocalStore(cfg.Server.StoragePath, LocalMediaBaseURL(cfg))
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
	}
}

// LocalMediaBaseURL is the public URL prefix of files kept by the local driver
func LocalMediaBaseURL(cfg *config.Config) string {
	base := strings.TrimRight(cfg.Server.PublicURL, "/")
	if base == "" {
		base = "http://localhost:" + cfg.Server.Port
	}
	return base + UploadsPath
}

// BuildDependencies wires repositories, stores, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.MediaStore, err = NewMediaStore(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Media.Driver).Msg("Failed to initialize media store")
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}
	lgr.Info().Str("driver", cfg.Media.Driver).Msg("Media store initialized")

	if cfg.Redis.URL != "" {
		redisStore, err := tokenstore.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize redis token store")
			return nil, fmt.Errorf("failed to initialize token store: %w", err)
		}
		deps.Revocations = redisStore
		deps.Closers = append(deps.Closers, redisStore)
		lgr.Info().Msg("Token revocations kept in redis")
	} else {
		pgStore := tokenstore.NewPostgresStore(dbPool)
		deps.Revocations = pgStore
		deps.Purger = pgStore
		lgr.Info().Msg("Token revocations kept in postgres")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.PositiveDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	repos := deps.Repos
	deps.UserService = appServices.NewUserService(repos.IdentityRepository, repos.ProfileRepository, cfg.Auth.SuperAdminEmail)
	deps.AuthService = appServices.NewAuthService(repos.IdentityRepository, deps.UserService, deps.JWTService, deps.Revocations)
	deps.StateService = appServices.NewStateService(repos.StateRepository)
	deps.CityService = appServices.NewCityService(repos.CityRepository, deps.MediaStore)
	deps.UniversityService = appServices.NewUniversityService(repos.UniversityRepository, deps.MediaStore)
	deps.CollegeService = appServices.NewCollegeService(repos.CollegeRepository, repos.MediaRepository)
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository)
	deps.MediaService = appServices.NewMediaService(
		repos.CollegeRepository,
		repos.CityRepository,
		repos.UniversityRepository,
		repos.MediaRepository,
		deps.MediaStore,
		appServices.MediaConfig{
			MaxUploadMB: cfg.Media.MaxUploadMB,
			Documents: pdfcheck.Limits{
				MaxFileSizeMB: cfg.Media.MaxUploadMB,
				MaxPages:      cfg.Media.MaxPDFPages,
			},
		},
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Revocations, deps.AuthService)

	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService),
		State:      appControllers.NewStateController(deps.StateService),
		City:       appControllers.NewCityController(deps.CityService, deps.MediaService),
		University: appControllers.NewUniversityController(deps.UniversityService, deps.MediaService),
		College:    appControllers.NewCollegeController(deps.CollegeService, deps.MediaService),
		Course:     appControllers.NewCourseController(deps.CourseService),
		Media:      appControllers.NewMediaController(deps.MediaService),
		User:       appControllers.NewUserController(deps.UserService),
	}

	return deps, nil
}

// NewRouter creates a Gin engine with the shared middleware chain.
func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	appMiddleware.RegisterValidation()

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	router := NewRouter(cfg)
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin router configured")

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	if cfg.Media.Driver == config.MediaDriverLocal {
		router.Static(UploadsPath, cfg.Server.StoragePath)
		lgr.Info().Str("path", cfg.Server.StoragePath).Msg("Static file serving configured for local media")
	}

	return router
}
