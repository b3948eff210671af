package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/codepath/recommender/internal/config"
	"github.com/codepath/recommender/internal/db"
	"github.com/codepath/recommender/internal/github"
	"github.com/codepath/recommender/internal/llm"
	"github.com/codepath/recommender/internal/recommend"
	"github.com/codepath/recommender/internal/server/middleware"
	"github.com/codepath/recommender/internal/types"
)

// Store is the persistence surface the server depends on. Both db.DB and
// db.MemStore satisfy it.
type Store interface {
	UserStore
	SessionStore

	GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error)

	FindAll(ctx context.Context) ([]recommend.Project, error)
	FindByDifficulty(ctx context.Context, difficulty string) ([]recommend.Project, error)
	FindByTechnology(ctx context.Context, technology string) ([]recommend.Project, error)
	RecommendForUser(ctx context.Context, user *recommend.UserProfile) ([]recommend.Project, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	store           Store
	db              *db.DB
	llmClient       llm.Client
	recommendations *recommend.Service
	userService     *UserService
	sessionService  *SessionService
	authHandler     *AuthHandler
	github          *github.Client
	validator       *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	InMemory     bool
}

// New creates a new server instance. With InMemory set the server runs
// against a seeded in-process store instead of Postgres. Without a Gemini
// API key the re-ranking stage is disabled and recommendations are served
// from the rule-based filter alone.
func New(cfg Config) (*Server, error) {
	s := &Server{
		github:    github.NewClient(),
		validator: validator.New(),
	}

	if cfg.InMemory {
		s.store = db.NewMemStore()
	} else {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = database
		s.store = database
	}

	var reranker *recommend.Reranker
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
		reranker = recommend.NewReranker(client)
	}
	s.recommendations = recommend.NewService(s.store, s.store, reranker)

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(s.store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.sessionService = NewSessionService(NewJWTService(jwtConfig), s.store)

	s.authHandler = NewAuthHandler(s.userService, s.sessionService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/recommendations", s.handleGetRecommendations)
	mux.HandleFunc("POST /api/recommendations", s.handlePostRecommendations)

	mux.HandleFunc("POST /api/auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.Logout)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/github/{username}", s.handleGithubProfile)

	// Routes below require a live session.
	auth := middleware.Auth(s.sessionService)
	mux.Handle("GET /api/users/me", auth(http.HandlerFunc(s.handleGetMe)))
	mux.Handle("PUT /api/users/me", auth(http.HandlerFunc(s.handleUpdateMe)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// successResponse wraps data in the standard success envelope.
func successResponse(w http.ResponseWriter, status int, data any) {
	jsonResponse(w, status, types.APIResponse{Success: true, Data: data})
}

// failResponse wraps an error message in the standard failure envelope.
func failResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, types.APIResponse{Success: false, Error: message})
}
