package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	PublicDir   string   `env:"PUBLIC_DIR" envDefault:"public"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	AdminAPIKey string   `env:"ADMIN_API_KEY"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:8080,http://127.0.0.1:5501,http://localhost:5501"`

	Database Database
	Session  Session
	Mail     Mail
	Redis    Redis   `envPrefix:"REDIS_"`
	Upload   Upload  `envPrefix:"UPLOAD_"`
	Storage  Storage `envPrefix:"MINIO_"`
}

// Database contains database connection parameters.
type Database struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"nexus"`
	Password string `env:"DB_PASSWORD" envDefault:"nexus"`
	Name     string `env:"DB_NAME" envDefault:"nexus_users"`
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* variables.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

// Session contains session and socket timing parameters.
type Session struct {
	TTL            time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	OTPTTL         time.Duration `env:"OTP_TTL" envDefault:"10m"`
	HandlerTimeout time.Duration `env:"WS_HANDLER_TIMEOUT" envDefault:"15s"`
}

// Mail contains SMTP and notification parameters. An empty SMTP host logs
// outgoing mail instead of sending it.
type Mail struct {
	Host       string `env:"SMTP_HOST"`
	Port       int    `env:"SMTP_PORT" envDefault:"587"`
	Username   string `env:"SMTP_USERNAME"`
	Password   string `env:"SMTP_PASSWORD"`
	From       string `env:"SMTP_FROM" envDefault:"NEXUS Store <no-reply@nexusstore.com>"`
	AdminEmail string `env:"MAIL_ADMIN_EMAIL" envDefault:"admin@nexusstore.com"`
	QueueSize  int    `env:"MAIL_QUEUE_SIZE" envDefault:"100"`
}

// Redis backs the OTP store when Addr is set.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Upload contains profile image upload parameters for the local image store.
type Upload struct {
	Dir       string `env:"DIR" envDefault:"public/Uploads"`
	URLPrefix string `env:"URL_PREFIX" envDefault:"/Uploads"`
	MaxBytes  int64  `env:"MAX_BYTES" envDefault:"5242880"`
	BackupDir string `env:"BACKUP_DIR"`
}

// Storage contains object storage parameters. An empty endpoint keeps images
// on local disk.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"nexus-profile-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	PublicURL string `env:"PUBLIC_URL"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
