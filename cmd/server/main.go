package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/deckforge/deckforge/backend-go/internal/asset"
	"github.com/deckforge/deckforge/backend-go/internal/auth"
	"github.com/deckforge/deckforge/backend-go/internal/config"
	"github.com/deckforge/deckforge/backend-go/internal/db"
	"github.com/deckforge/deckforge/backend-go/internal/export"
	mw "github.com/deckforge/deckforge/backend-go/internal/middleware"
	"github.com/deckforge/deckforge/backend-go/internal/presentation"
	"github.com/deckforge/deckforge/backend-go/internal/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	presService := presentation.NewService(queries)
	presHandler := presentation.NewHandler(presService)

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(presService, assetHandler.Loader())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/presentations", presHandler.List).Methods("GET")
	api.HandleFunc("/presentations", presHandler.Create).Methods("POST")
	api.HandleFunc("/presentations/{presentationId}", presHandler.Get).Methods("GET")
	api.HandleFunc("/presentations/{presentationId}", presHandler.Delete).Methods("DELETE")
	api.HandleFunc("/presentations/{presentationId}/document", presHandler.GetDocument).Methods("GET")
	api.HandleFunc("/presentations/{presentationId}/slides", presHandler.AddSlide).Methods("POST")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}", presHandler.DeleteSlide).Methods("DELETE")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}/move", presHandler.MoveSlide).Methods("POST")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}/elements", presHandler.AddElement).Methods("POST")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}/elements/{elementId}", presHandler.UpdateElement).Methods("PATCH")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}/elements/{elementId}", presHandler.DeleteElement).Methods("DELETE")
	api.HandleFunc("/presentations/{presentationId}/slides/{slideId}/elements/{elementId}/reorder", presHandler.ReorderElement).Methods("POST")
	api.HandleFunc("/export/{presentationId}/{slideId}", exportHandler.ExportSlide).Methods("GET")
	api.HandleFunc("/assets/{assetId}", assetHandler.DeleteAsset).Methods("DELETE")

	// WebSocket editor session
	r.HandleFunc("/ws/presentation/{presentationId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, authService, presService, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, authSvc *auth.Service, presSvc *presentation.Service, cfg *config.Config) {
	presentationID := mux.Vars(r)["presentationId"]

	// Browsers cannot set headers on upgrade requests, so the token rides
	// in a query parameter here.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := presSvc.Get(r.Context(), presentationID, userID); err != nil {
		http.Error(w, "presentation not found", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(cfg.AllowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sess, err := session.New(r.Context(), conn, presSvc, presentationID, userID)
	if err != nil {
		slog.Error("create session", "error", err)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	sess.Run(r.Context())
}

func originPatterns(allowed string) []string {
	var out []string
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
