package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mwhitlock/tandem/internal/handler"
	"github.com/mwhitlock/tandem/internal/middleware"
	"github.com/mwhitlock/tandem/internal/store"
	ws "github.com/mwhitlock/tandem/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	userH       *handler.UserHandler
	coupleH     *handler.CoupleHandler
	groceryH    *handler.GroceryHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	coupleStore := store.NewCoupleStore(db)
	groceryStore := store.NewGroceryStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		userH:       handler.NewUserHandler(userStore, hub, logger.With("component", "user")),
		coupleH:     handler.NewCoupleHandler(coupleStore, hub, logger.With("component", "couple")),
		groceryH:    handler.NewGroceryHandler(groceryStore, hub, logger.With("component", "grocery")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router builds the full route table. Each RPC procedure gets one named
// route; there is no batching and no per-route middleware beyond logging
// and the PIN brute-force limiter.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /rpc/createUser", s.userH.Create)
	mux.HandleFunc("GET /rpc/getUser", s.userH.Get)
	mux.HandleFunc("POST /rpc/setUserPin", s.userH.SetPIN)
	mux.HandleFunc("POST /rpc/verifyUserPin", s.rateLimitedHandler(s.userH.VerifyPIN))

	mux.HandleFunc("POST /rpc/createCouple", s.coupleH.Create)

	mux.HandleFunc("POST /rpc/createCategory", s.groceryH.CreateCategory)
	mux.HandleFunc("GET /rpc/getCategories", s.groceryH.ListCategories)
	mux.HandleFunc("GET /rpc/suggestCategory", s.groceryH.SuggestCategory)
	mux.HandleFunc("POST /rpc/createGroceryList", s.groceryH.CreateList)
	mux.HandleFunc("GET /rpc/getGroceryLists", s.groceryH.ListLists)
	mux.HandleFunc("POST /rpc/addGroceryItem", s.groceryH.AddItem)
	mux.HandleFunc("POST /rpc/toggleItemCompletion", s.groceryH.ToggleItem)
	mux.HandleFunc("POST /rpc/removeGroceryItem", s.groceryH.RemoveItem)
	mux.HandleFunc("GET /rpc/getCurrentWeekList", s.groceryH.CurrentWeek)

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
