// Package chi exposes the chat service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/domain"
	"github.com/goldenspoon/dinebot/internal/domain/menu"
	"github.com/goldenspoon/dinebot/internal/domain/response"
	"github.com/goldenspoon/dinebot/internal/domain/restaurant"
	"github.com/goldenspoon/dinebot/internal/usecase/chat"
	healthuc "github.com/goldenspoon/dinebot/internal/usecase/health"
	"github.com/goldenspoon/dinebot/internal/version"
)

// maxMessageBytes caps the /api/chat request body.
const maxMessageBytes = 16 << 10

// ChatService is what the transport needs from the chat usecase.
type ChatService interface {
	Handle(ctx context.Context, text string) (response.Envelope, error)
	ListItems(ctx context.Context, f chat.MenuFilter) ([]menu.Item, error)
	ItemDetails(ctx context.Context, name string) (menu.Item, error)
	RestaurantInfo() restaurant.Info
	Categories(ctx context.Context) ([]string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the DineBot HTTP API.
type Server struct {
	chat          ChatService
	health        HealthChecker
	logger        *zap.Logger
	limiter       *RateLimiter
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(chatSvc ChatService, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{chat: chatSvc, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, "Item not found"),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "Empty message"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, "Too many requests"),
	}
	return s
}

// WithRateLimiter guards POST /api/chat with l.
func (s *Server) WithRateLimiter(l *RateLimiter) *Server {
	s.limiter = l
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Status)
	if s.limiter != nil {
		r.With(s.limiter.Middleware).Post("/api/chat", s.Chat)
	} else {
		r.Post("/api/chat", s.Chat)
	}
	r.Get("/api/menu", s.ListMenu)
	r.Get("/api/menu/{name}", s.GetItem)
	r.Get("/api/restaurant-info", s.RestaurantInfo)
	r.Get("/api/categories", s.Categories)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.MethodNotAllowed)
}

// ErrorBody is the JSON error shape. Response carries a user-facing chat reply on /api/chat.
type ErrorBody struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
}

// StatusBody is returned by GET /.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message *string `json:"message"`
}

// MenuBody is returned by GET /api/menu.
type MenuBody struct {
	Items []response.ItemView `json:"items"`
	Count int                 `json:"count"`
}

// CategoriesBody is returned by GET /api/categories.
type CategoriesBody struct {
	Categories []string `json:"categories"`
}

// HealthBody is returned by GET /health.
type HealthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Status handles GET /.
func (s *Server) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusBody{
		Status:  "online",
		Message: "DineBot API is running",
		Version: version.String(),
	})
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil || req.Message == nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "No message provided", Response: "Please send a message!"})
		return
	}

	text := strings.TrimSpace(*req.Message)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Empty message", Response: "Please type something!"})
		return
	}

	env, err := s.chat.Handle(r.Context(), text)
	if err != nil {
		s.logger.Error("Chat failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{
			Error:    "Internal server error",
			Response: "Sorry, something went wrong. Please try again!",
		})
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// ListMenu handles GET /api/menu?category=&vegetarian=&vegan=.
func (s *Server) ListMenu(w http.ResponseWriter, r *http.Request) {
	f, err := bindMenuFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid query parameter", Message: err.Error()})
		return
	}

	items, err := s.chat.ListItems(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err, "Failed to fetch menu")
		return
	}

	writeJSON(w, http.StatusOK, MenuBody{Items: response.NewItemViews(items), Count: len(items)})
}

// GetItem handles GET /api/menu/{name}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid item name", Message: err.Error()})
		return
	}

	it, err := s.chat.ItemDetails(r.Context(), name)
	if errors.Is(err, domain.ErrItemNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorBody{
			Error:   "Item not found",
			Message: fmt.Sprintf("No item found with name: %s", name),
		})
		return
	}
	if err != nil {
		s.handleDomainError(w, err, "Failed to fetch item details")
		return
	}

	writeJSON(w, http.StatusOK, response.NewItemView(it))
}

// RestaurantInfo handles GET /api/restaurant-info.
func (s *Server) RestaurantInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.chat.RestaurantInfo())
}

// Categories handles GET /api/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.chat.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err, "Failed to fetch categories")
		return
	}
	writeJSON(w, http.StatusOK, CategoriesBody{Categories: cats})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthBody{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound answers unknown routes.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorBody{
		Error:   "Endpoint not found",
		Message: "The requested URL was not found on the server.",
	})
}

// MethodNotAllowed answers known routes called with the wrong method.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{
		Error:   "Method not allowed",
		Message: "The method is not allowed for the requested URL.",
	})
}

// bindMenuFilter reads the optional category, vegetarian and vegan query parameters.
func bindMenuFilter(r *http.Request) (chat.MenuFilter, error) {
	var (
		category   *string
		vegetarian *bool
		vegan      *bool
		q          = r.URL.Query()
	)
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &category); err != nil {
		return chat.MenuFilter{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "vegetarian", q, &vegetarian); err != nil {
		return chat.MenuFilter{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "vegan", q, &vegan); err != nil {
		return chat.MenuFilter{}, err
	}

	var f chat.MenuFilter
	if category != nil {
		f.Category = strings.TrimSpace(*category)
	}
	f.Vegetarian = vegetarian != nil && *vegetarian
	f.Vegan = vegan != nil && *vegan
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, title string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, ErrorBody{Error: title, Message: sentinel.Error()})
		return true
	}
}

// handleDomainError maps known sentinels; anything else becomes a 500 with a generic message.
func (s *Server) handleDomainError(w http.ResponseWriter, err error, fallback string) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: fallback})
}
