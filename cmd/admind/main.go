package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	api "github.com/welcomedesk/welcomedesk/internal/api/http"
	auth "github.com/welcomedesk/welcomedesk/internal/auth/middleware"
	"github.com/welcomedesk/welcomedesk/internal/config"
	"github.com/welcomedesk/welcomedesk/internal/db"
	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/notify"
	"github.com/welcomedesk/welcomedesk/internal/outbox"
	"github.com/welcomedesk/welcomedesk/internal/rbac"
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

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		slog.Error("blob store", "err", err)
		os.Exit(1)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	boot := auth.BootstrapAdmin{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash}

	// Background jobs share the admin process: the outbox dispatcher turns
	// committed document/quiz rows into bot notifications, the mailing runner
	// delivers scheduled mailings.
	if cfg.BotToken != "" {
		tg, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			slog.Error("telegram connect failed", "err", err)
			os.Exit(1)
		}
		notifier := notify.NewTelegramNotifier(tg, cfg.MailingRate)
		go notify.NewDispatcher(outbox.NewRepo(dbh), store, notifier, cfg.OutboxPoll).Run(ctx)
		go notify.NewRunner(store, notify.NewTelegramSender(tg, blobs), cfg.MailingRate, cfg.MailingWorkers, cfg.MailingPoll).Run(ctx)
	} else {
		slog.Warn("BOT_TOKEN empty, notifications and mailings disabled")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, store, boot))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("employees:list")).
			Get("/employees", api.ListEmployeesHandler(store))
		pr.With(rbac.Require("employees:list")).
			Get("/employees/{employeeID}", api.GetEmployeeHandler(store))
		pr.With(rbac.Require("employees:manage")).
			Post("/employees/{employeeID}/active", api.SetEmployeeActiveHandler(store))
		pr.With(rbac.Require("employees:manage")).
			Post("/employees/{employeeID}/department", api.AssignDepartmentHandler(store))
		pr.With(rbac.Require("employees:manage")).
			Post("/employees/{employeeID}/comments", api.AddCommentHandler(store))
		pr.With(rbac.Require("employees:list")).
			Get("/employees/{employeeID}/comments", api.ListCommentsHandler(store))

		pr.With(rbac.Require("departments:manage")).
			Get("/departments", api.ListDepartmentsHandler(store))
		pr.With(rbac.Require("departments:manage")).
			Post("/departments", api.CreateDepartmentHandler(store))
		pr.With(rbac.Require("departments:manage")).
			Put("/departments/{departmentID}", api.RenameDepartmentHandler(store))
		pr.With(rbac.Require("departments:manage")).
			Delete("/departments/{departmentID}", api.DeleteDepartmentHandler(store))

		pr.With(rbac.Require("documents:manage")).
			Post("/documents", api.UploadDocumentHandler(store, blobs))
		pr.With(rbac.Require("documents:manage")).
			Get("/documents", api.ListDocumentsHandler(store))
		pr.With(rbac.Require("documents:manage")).
			Get("/documents/{documentID}/file", api.GetDocumentFileHandler(store, blobs))
		pr.With(rbac.Require("documents:manage")).
			Delete("/documents/{documentID}", api.DeleteDocumentHandler(store, blobs))

		pr.With(rbac.Require("quizzes:manage")).
			Post("/quizzes", api.CreateQuizHandler(store))
		pr.With(rbac.Require("quizzes:manage")).
			Get("/quizzes", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("quizzes:manage")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(store))
		pr.With(rbac.Require("quizzes:manage")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(store))

		pr.With(rbac.Require("attempts:view")).
			Get("/attempts", api.ListAttemptsHandler(store))
		pr.With(rbac.Require("attempts:view")).
			Get("/attempts/{attemptID}/answers", api.AttemptAnswersHandler(store))

		pr.With(rbac.Require("mailings:manage")).
			Post("/mailings", api.CreateMailingHandler(store))
		pr.With(rbac.Require("mailings:manage")).
			Post("/mailings/{mailingID}/attachments", api.AddAttachmentHandler(store, blobs))
		pr.With(rbac.Require("mailings:manage")).
			Get("/mailings", api.ListMailingsHandler(store))
		pr.With(rbac.Require("mailings:manage")).
			Delete("/mailings/{mailingID}", api.DeleteMailingHandler(store, blobs))

		pr.With(rbac.Require("content:manage")).
			Get("/about", api.ListAboutSectionsHandler(store))
		pr.With(rbac.Require("content:manage")).
			Post("/about", api.CreateAboutSectionHandler(store))
		pr.With(rbac.Require("content:manage")).
			Put("/about/{sectionID}", api.UpdateAboutSectionHandler(store))
		pr.With(rbac.Require("content:manage")).
			Delete("/about/{sectionID}", api.DeleteAboutSectionHandler(store))

		pr.With(rbac.Require("content:manage")).
			Get("/help", api.GetHelpHandler(store))
		pr.With(rbac.Require("content:manage")).
			Put("/help/text", api.SetHelpTextHandler(store))
		pr.With(rbac.Require("content:manage")).
			Post("/help/buttons", api.CreateHelpButtonHandler(store))
		pr.With(rbac.Require("content:manage")).
			Put("/help/buttons/{buttonID}", api.UpdateHelpButtonHandler(store))
		pr.With(rbac.Require("content:manage")).
			Delete("/help/buttons/{buttonID}", api.DeleteHelpButtonHandler(store))

		pr.With(rbac.Require("staff:manage")).
			Get("/staff", api.ListStaffHandler(store))
		pr.With(rbac.Require("staff:manage")).
			Put("/staff", api.UpsertStaffHandler(store))
		pr.With(rbac.Require("staff:manage")).
			Delete("/staff", api.DeleteStaffHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db down", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	slog.Info("admin api listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
