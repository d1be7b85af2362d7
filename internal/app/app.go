package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/Tecnolosic/rompeelciclo/internal/config"
	"github.com/Tecnolosic/rompeelciclo/internal/db"
	"github.com/Tecnolosic/rompeelciclo/internal/device"
	"github.com/Tecnolosic/rompeelciclo/internal/gateway"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
	"github.com/Tecnolosic/rompeelciclo/internal/service"
	"github.com/Tecnolosic/rompeelciclo/internal/service/payment"
	"github.com/Tecnolosic/rompeelciclo/internal/state"
	"github.com/Tecnolosic/rompeelciclo/internal/storage"
)

type App struct {
	Cfg                   *config.Config
	DB                    *sqlx.DB
	Queue                 *gateway.Queue
	Store                 *state.Store
	Device                *device.Identity
	MediaStore            storage.MediaStore
	UserRepository        repository.UserRepository
	ProfileRepository     repository.ProfileRepository
	InteractionRepository repository.InteractionRepository
	AuthService           *service.AuthService
	EmailService          *service.EmailService
	VerificationService   *service.VerificationService
	LicenseService        *service.LicenseService
	MentorService         *service.MentorService
	ContentService        *service.ContentService
	PaymentService        payment.Provider
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	confessionRepository := repository.NewConfessionRepository(database)
	pilarRepository := repository.NewPilarRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	sparkRepository := repository.NewSparkRepository(database)
	interactionRepository := repository.NewInteractionRepository(database)

	// Media storage is optional; without it the confession journal is
	// text-only.
	var mediaStore storage.MediaStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PresignExpiry: cfg.S3PresignExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize media storage: %v", err)
		}
		mediaStore = s3Store
	}

	// Per-user state: the gateway loads snapshots, the queue persists
	// mutations in the background, the store hands out silos.
	gw := gateway.New(
		profileRepository,
		goalRepository,
		confessionRepository,
		pilarRepository,
		progressRepository,
		sparkRepository,
		interactionRepository,
	)
	queue := gateway.NewQueue(
		profileRepository,
		goalRepository,
		confessionRepository,
		progressRepository,
		interactionRepository,
	)
	store := state.NewStore(gw, queue)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	verificationService := service.NewVerificationService(
		userRepository,
		profileRepository,
		emailService,
		store,
	)
	licenseService := service.NewLicenseService(verificationService)
	mentorService := service.NewMentorService(cfg.MentorAPIKey, cfg.MentorModel, cfg.MentorEndpoint)
	contentService := service.NewContentService(cfg.ContentPath)

	// Load the daily spark set into the database so snapshots carry it.
	err = contentService.SeedSparks(sparkRepository)
	if err != nil {
		return nil, fmt.Errorf("failed to seed daily sparks: %v", err)
	}

	// Initialize payment provider based on config
	paymentProvider, err := payment.NewProvider(cfg, verificationService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment provider: %v", err)
	}

	return &App{
		Cfg:                   cfg,
		DB:                    database,
		Queue:                 queue,
		Store:                 store,
		Device:                device.New(cfg.DataPath),
		MediaStore:            mediaStore,
		UserRepository:        userRepository,
		ProfileRepository:     profileRepository,
		InteractionRepository: interactionRepository,
		AuthService:           authService,
		EmailService:          emailService,
		VerificationService:   verificationService,
		LicenseService:        licenseService,
		MentorService:         mentorService,
		ContentService:        contentService,
		PaymentService:        paymentProvider,
	}, nil
}

func (a *App) Close() error {
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
