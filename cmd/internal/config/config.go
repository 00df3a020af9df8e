package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/log"
)

type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":5000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DB
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"./database.db"`
	Seed     bool   `envconfig:"SEED" default:"false"`

	// JWT
	JWTAccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"change-me-access-secret"`
	JWTAccessTTL    time.Duration `envconfig:"JWT_ACCESS_TTL" default:"15m"`
	JWTRefreshTTL   time.Duration `envconfig:"JWT_REFRESH_TTL" default:"168h"`

	// HTTP
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"100"`

	// Booking window, decimal hours
	BookingOpenHour  float64 `envconfig:"BOOKING_OPEN_HOUR" default:"7"`
	BookingCloseHour float64 `envconfig:"BOOKING_CLOSE_HOUR" default:"23"`

	// Integrations, empty disables
	RedisURL     string `envconfig:"REDIS_URL"`
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"padel.events"`

	// Mail
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@padelcourt.local"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL"`

	// Gallery
	GalleryBackend string `envconfig:"GALLERY_BACKEND" default:"local"`
	GalleryDir     string `envconfig:"GALLERY_DIR" default:"./uploads"`
	GalleryBaseURL string `envconfig:"GALLERY_BASE_URL" default:"/uploads"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3PublicURL    string `envconfig:"S3_PUBLIC_URL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded, using process environment")
	}

	var c App
	err := envconfig.Process("", &c)
	return c, err
}

func (a App) Postgres() bool {
	return strings.EqualFold(a.DBDriver, "postgres")
}

func (a App) MailEnabled() bool {
	return a.SMTPHost != ""
}

func (a App) GommonLevel() log.Lvl {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
