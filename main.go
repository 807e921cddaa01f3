package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/config"
	orderControllers "github.com/vansh565/Nexus-store/controllers/order"
	"github.com/vansh565/Nexus-store/logger"
	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/middleware"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/otp"
	"github.com/vansh565/Nexus-store/realtime"
	"github.com/vansh565/Nexus-store/routes"
	"github.com/vansh565/Nexus-store/storage"
)

const (
	backupRetention = 7 * 24 * time.Hour
	backupHour      = 3
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting application")

	db, err := initDatabase(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := models.AutoMigrate(db); err != nil {
		return err
	}

	otpStore, err := initOTPStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}

	images, localDir, err := initImageStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.Mail.Host != "" {
		sender = mailer.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	} else {
		log.Warn("SMTP_HOST not set, emails will only be logged")
	}
	queue := mailer.NewQueue(sender, cfg.Mail.AdminEmail, cfg.Mail.QueueSize, log)
	// Close drains pending mail after the server stops.
	queue.Start(context.Background())
	defer queue.Close()

	if cfg.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY not set, admin routes are disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader, "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, &routes.Services{
		Config:    cfg,
		DB:        db,
		Directory: realtime.NewDirectory(log),
		OTP:       otpStore,
		Images:    images,
		Notifier:  queue,
		Feed:      orderControllers.NewFeed(log),
		Log:       log,
	})

	if localDir != "" && cfg.Upload.BackupDir != "" {
		go storage.RunDailyBackup(ctx, log, localDir, cfg.Upload.BackupDir, backupRetention, backupHour, 0)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initDatabase sets up the GORM DB connection.
func initDatabase(cfg config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func initOTPStore(ctx context.Context, cfg config.Redis, log *zap.Logger) (otp.Store, error) {
	if cfg.Addr == "" {
		log.Info("using in-memory OTP store")
		return otp.NewMemoryStore(), nil
	}
	client, err := otp.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, err
	}
	log.Info("using redis OTP store", zap.String("addr", cfg.Addr))
	return otp.NewRedisStore(client), nil
}

// initImageStore returns the image store and, for local storage, the
// directory to back up.
func initImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ImageStore, string, error) {
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		log.Info("storing images in minio", zap.String("bucket", cfg.Storage.Bucket))
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
