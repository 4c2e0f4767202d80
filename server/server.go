package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"grainbroker-api/logger"
	"grainbroker-api/repository"
	"grainbroker-api/repository/models"
	"grainbroker-api/service"
)

// WebServer handles HTTP requests
type WebServer struct {
	httpAddr   string
	server     *http.Server
	startTime  time.Time
	repository *repository.Repository
}

// Services groups the three entity services the server dispatches to.
type Services struct {
	Customers service.CRUD[models.Customer]
	Suppliers service.CRUD[models.Supplier]
	Orders    service.CRUD[models.Order]
}

// NewWebServer creates a new web server with one resource group per entity.
func NewWebServer(httpPort string, repo *repository.Repository, svcs Services) *WebServer {
	mux := http.NewServeMux()

	ws := &WebServer{
		httpAddr: ":" + httpPort,
		server: &http.Server{
			Addr: ":" + httpPort,
		},
		startTime:  time.Now(),
		repository: repo,
	}
	ws.server.Handler = withRequestLogging(mux)

	mux.HandleFunc("/", ws.handleRoot)
	mux.HandleFunc("/healthz", ws.handleHealthz)

	registerResource(mux, "Customers", svcs.Customers, customerID)
	registerResource(mux, "Suppliers", svcs.Suppliers, supplierID)
	registerResource(mux, "Orders", svcs.Orders, orderID)

	return ws
}

// Start starts the web server
func (ws *WebServer) Start() {
	logger.L().Info("Starting web server", zap.String("addr", ws.httpAddr))
	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Error("web server error", zap.Error(err))
		}
	}()
}

// Shutdown gracefully shuts down the web server
func (ws *WebServer) Shutdown(ctx context.Context) error {
	logger.L().Info("Shutting down web server")
	return ws.server.Shutdown(ctx)
}

// Handler exposes the routing tree for httptest-driven tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// handleRoot shows a minimal status page.
func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		JSONError(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<h1>Grain Broker API</h1>"))
	w.Write([]byte("<p>Resources: /api/Customers, /api/Suppliers, /api/Orders</p>"))
}

// handleHealthz reports uptime and store reachability.
func (ws *WebServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "ok"
	code := http.StatusOK
	if err := ws.repository.Ping(r.Context()); err != nil {
		status = "database unreachable"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"uptime": time.Since(ws.startTime).String(),
	})
}

// withRequestLogging assigns a request id and logs each request with its
// resulting status.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, err := generateRequestID()
		if err != nil {
			JSONError(w, "Internal server error", http.StatusInternalServerError)
			logger.L().Error("Failed to generate request ID", zap.Error(err))
			return
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.FromCtx(ctx).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func generateRequestID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Error("Failed to encode response", zap.Error(err))
	}
}

// JSONError sends a JSON formatted error response with the given status code and message
func JSONError(w http.ResponseWriter, message string, statusCode int) {
	errorResponse := struct {
		Error string `json:"error"`
	}{
		Error: message,
	}
	jsonBytes, err := json.Marshal(errorResponse)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonBytes)
}
