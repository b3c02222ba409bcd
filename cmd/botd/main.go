package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/welcomedesk/welcomedesk/internal/bot"
	"github.com/welcomedesk/welcomedesk/internal/config"
	"github.com/welcomedesk/welcomedesk/internal/db"
	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/notify"
	"github.com/welcomedesk/welcomedesk/internal/quiz"
	"github.com/welcomedesk/welcomedesk/internal/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(dbCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		slog.Error("db open failed", "err", err)
		os.Exit(1)
	}
	store := hr.NewSQLStore(dbh, cfg.DBDriver)

	sessions, err := sessionStore(cfg)
	if err != nil {
		slog.Error("session store", "err", err)
		os.Exit(1)
	}

	tg, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("telegram connect failed", "err", err)
		os.Exit(1)
	}
	slog.Info("authorized", "bot", tg.Self.UserName)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		slog.Error("blob store", "err", err)
		os.Exit(1)
	}

	engine := quiz.NewEngine(store, sessions)

	if cfg.RemindersEnabled {
		job := notify.NewReminderJob(store, notify.NewTelegramNotifier(tg, cfg.MailingRate), cfg.ReminderInterval)
		go job.Run(ctx)
	}

	bot.New(tg, store, engine, blobs).Run(ctx)
}

func sessionStore(cfg config.Config) (quiz.SessionStore, error) {
	if cfg.SessionDriver == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return quiz.NewRedisStore(rdb), nil
	}
	return quiz.NewMemoryStore(), nil
}
