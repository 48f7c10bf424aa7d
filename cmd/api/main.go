package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/lcy3-ops/dailytask/internal/auth"
	"github.com/lcy3-ops/dailytask/internal/config"
	"github.com/lcy3-ops/dailytask/internal/handlers"
	"github.com/lcy3-ops/dailytask/internal/middleware"
	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
	"github.com/lcy3-ops/dailytask/internal/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	catalog, err := config.LoadRoleCatalog(cfg.RoleCatalogPath)
	if err != nil {
		log.Fatalf("role catalog: %v", err)
	}

	store, err := rowstore.NewSheetsStore(context.Background(), cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("row store: %v", err)
	}

	users := repo.NewUsers(store, catalog.UsersSheet)
	templates := repo.NewTemplates(store, catalog)
	taskRepo := repo.NewTasks(store, catalog.TaskSheet)
	boards := repo.NewBoards(store, catalog.BoardSheet)

	sessions := auth.NewManager(cfg.SessionSecret)
	gate := auth.NewGate(users, sessions)
	svc := tasks.NewService(taskRepo, templates)

	h := handlers.NewHandler(gate, sessions, users, templates, boards, svc, catalog)

	r := chi.NewRouter()

	// Public
	r.Post("/user/login", h.Auth.Login(models.RoleUser))
	r.Post("/user/first-login", h.Auth.SetPassword)
	r.Post("/admin/login", h.Auth.Login(models.RoleAdmin))

	// User dashboard
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessions, models.RoleUser))

		r.Get("/user/me", h.Auth.Me)
		r.Post("/user/logout", h.Auth.Logout)

		r.Get("/user/roles", h.User.Roles)
		r.Get("/user/shift", h.User.Shift)
		r.Post("/user/shift/role", h.User.SelectRole)
		r.Get("/user/tasks", h.User.Tasks)
		r.Post("/user/tasks/{pos}", h.User.Submit)

		r.Get("/user/board", h.User.Board)
		r.Put("/user/board", h.User.SaveBoard)
	})

	// Admin dashboard
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessions, models.RoleAdmin))

		r.Get("/admin/me", h.Auth.Me)
		r.Post("/admin/logout", h.Auth.Logout)

		r.Get("/admin/summary", h.Admin.Summary)
		r.Get("/admin/users", h.Admin.ListUsers)
		r.Post("/admin/users", h.Admin.CreateUser)
		r.Patch("/admin/users/{email}", h.Admin.UpdateUser)
		r.Post("/admin/users/{email}/reset-password", h.Admin.ResetPassword)
		r.Delete("/admin/users/{email}", h.Admin.DeleteUser)
		r.Get("/admin/templates/{role}", h.Admin.GetTemplate)
		r.Put("/admin/templates/{role}", h.Admin.PutTemplate)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
