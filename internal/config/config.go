package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	SessionDriver string // memory|redis
	RedisAddr     string
	RedisDB       int

	BotToken     string
	BlobBasePath string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOrigins []string

	MailingRate      float64 // messages per second towards Telegram
	MailingWorkers   int
	MailingPoll      time.Duration
	OutboxPoll       time.Duration
	RemindersEnabled bool
	ReminderInterval time.Duration
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:  addr,
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		SessionDriver: envOr("SESSION_DRIVER", "memory"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisDB:       envInt("REDIS_DB", 0),

		BotToken:     os.Getenv("BOT_TOKEN"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		MailingRate:      envFloat("MAILING_RATE", 20),
		MailingWorkers:   envInt("MAILING_WORKERS", 4),
		MailingPoll:      envDuration("MAILING_POLL", 30*time.Second),
		OutboxPoll:       envDuration("OUTBOX_POLL", 10*time.Second),
		RemindersEnabled: envBool("REMINDERS_ENABLED", false),
		ReminderInterval: envDuration("REMINDER_INTERVAL", 24*time.Hour),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
