package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/editor-go/internal/auth"
	"github.com/inamate/inamate/editor-go/internal/config"
	mw "github.com/inamate/inamate/editor-go/internal/middleware"
	"github.com/inamate/inamate/editor-go/internal/project"
	"github.com/inamate/inamate/editor-go/internal/session"
	"github.com/inamate/inamate/editor-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}
	queries := store.New(pool)

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(queries)
	projectHandler := project.NewHandler(projectService)

	if cfg.PlaygroundProject != "" {
		if err := projectService.EnsurePlayground(ctx, cfg.PlaygroundProject); err != nil {
			slog.Error("create playground project", "error", err)
			os.Exit(1)
		}
	}

	hub := session.NewHub(queries, queries)
	go hub.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","rooms":%d}`, hub.Rooms())
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	projectHandler.Routes(api)

	ws := &wsHandler{
		hub:            hub,
		auth:           authService,
		projects:       projectService,
		playground:     cfg.PlaygroundProject,
		originPatterns: cfg.OriginPatterns(),
	}
	r.HandleFunc("/ws/project/{projectId}", ws.ServeHTTP)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so every room saves its document.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

type wsHandler struct {
	hub            *session.Hub
	auth           *auth.Service
	projects       *project.Service
	playground     string
	originPatterns []string
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]
	token := r.URL.Query().Get("token")

	var id auth.Identity
	switch {
	case token != "":
		var err error
		id, err = h.auth.ParseToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	case projectID == h.playground:
		// Playground project allows anonymous access
		id = auth.Identity{UserID: "anon-" + uuid.New().String()[:8], DisplayName: "Anonymous"}
	default:
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	if projectID != h.playground {
		if err := h.projects.CheckMembership(r.Context(), projectID, id.UserID); err != nil {
			if errors.Is(err, project.ErrNotMember) {
				http.Error(w, "not a project member", http.StatusForbidden)
				return
			}
			slog.Error("check membership", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(h.hub, conn, id.UserID, id.DisplayName, projectID, uuid.New().String())
	if err := client.Join(); err != nil {
		slog.Warn("join room", "project", projectID, "error", err)
		conn.Close(websocket.StatusInternalError, "could not open project")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
