package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fraccalc/core/fraction"
	"fraccalc/core/interpreter"
	"fraccalc/core/realtime"
	"fraccalc/logger"
	"fraccalc/metrics"
	"fraccalc/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	historyPageSize = 10
	shutdownTimeout = 5 * time.Second
)

// routes - описание маршрутов для GET /
var routes = []map[string]string{
	{"method": "POST", "path": "/api/calculate", "description": "операция над двумя дробями (Bearer токен)"},
	{"method": "POST", "path": "/api/execute", "description": "текстовая команда (Bearer токен)"},
	{"method": "GET", "path": "/api/vars", "description": "переменные"},
	{"method": "GET", "path": "/api/history?limit=&q=", "description": "история команд и поиск"},
	{"method": "POST", "path": "/api/clear-history", "description": "очистка истории (Bearer токен)"},
	{"method": "POST", "path": "/api/auth/login", "description": "получение токена"},
	{"method": "GET", "path": "/ws?token=", "description": "WebSocket вычислений"},
	{"method": "GET", "path": "/health", "description": "проверка состояния"},
	{"method": "GET", "path": "/metrics", "description": "метрики Prometheus"},
}

type WebInterface struct {
	interpreter    *interpreter.Interpreter
	realtime       *realtime.Server
	allowedOrigins []string
	log            zerolog.Logger
}

func NewWebInterface(i *interpreter.Interpreter, rt *realtime.Server, allowedOrigins []string) *WebInterface {
	return &WebInterface{
		interpreter:    i,
		realtime:       rt,
		allowedOrigins: allowedOrigins,
		log:            logger.Component("web"),
	}
}

// Middleware для метрик
func metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrapper для захвата статус кода
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapped, r)

		duration := time.Since(start).Seconds()

		metrics.HttpRequestsTotal.WithLabelValues(
			r.Method,
			r.URL.Path,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		metrics.HttpRequestDuration.WithLabelValues(
			r.Method,
			r.URL.Path,
		).Observe(duration)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// protect - проверка Bearer токена; без realtime сервера маршрут открыт
func (w *WebInterface) protect(next http.HandlerFunc) http.HandlerFunc {
	if w.realtime == nil {
		return next
	}
	return w.realtime.AuthMiddleware(next)
}

// Handler - все маршруты, обёрнутые в CORS
func (w *WebInterface) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes с метриками; изменяющие состояние требуют токен
	mux.HandleFunc("/api/calculate", metricsMiddleware(w.protect(w.handleCalculate)))
	mux.HandleFunc("/api/execute", metricsMiddleware(w.protect(w.handleExecute)))
	mux.HandleFunc("/api/vars", metricsMiddleware(w.handleVars))
	mux.HandleFunc("/api/history", metricsMiddleware(w.handleHistory))
	mux.HandleFunc("/api/clear-history", metricsMiddleware(w.protect(w.handleClearHistory)))

	// Логин и WebSocket
	if w.realtime != nil {
		w.realtime.Register(mux)
	}

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/", w.handleIndex)

	c := cors.New(cors.Options{
		AllowedOrigins:   w.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})
	return c.Handler(mux)
}

// Start - запуск HTTP сервера до отмены ctx
func (w *WebInterface) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		w.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	w.log.Info().Msg("shutting down http server")
	if w.realtime != nil {
		w.realtime.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (w *WebInterface) handleCalculate(wr http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(wr, "only POST", http.StatusMethodNotAllowed)
		return
	}

	var req models.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(wr, fraction.NewValidationError("body", "", "некорректный JSON"))
		return
	}

	a, err := req.First.Parse()
	if err != nil {
		writeError(wr, fmt.Errorf("первая дробь: %w", err))
		return
	}
	b, err := req.Second.Parse()
	if err != nil {
		writeError(wr, fmt.Errorf("вторая дробь: %w", err))
		return
	}

	outcome, err := w.interpreter.Calculate(req.Op, a, b)
	if err != nil {
		writeError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, models.NewCalculateResponse(outcome))
}

func (w *WebInterface) handleExecute(wr http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(wr, "only POST", http.StatusMethodNotAllowed)
		return
	}

	var req models.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(wr, fraction.NewValidationError("body", "", "некорректный JSON"))
		return
	}

	outcome, err := w.interpreter.Execute(req.Input)
	if err != nil {
		writeError(wr, err)
		return
	}
	writeJSON(wr, http.StatusOK, models.NewCalculateResponse(outcome))
}

func (w *WebInterface) handleVars(wr http.ResponseWriter, _ *http.Request) {
	writeJSON(wr, http.StatusOK, w.interpreter.GetVariables())
}

func (w *WebInterface) handleHistory(wr http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		found, err := w.interpreter.SearchHistory(q)
		if err != nil {
			w.log.Error().Err(err).Msg("history search failed")
			writeJSON(wr, http.StatusInternalServerError, models.NewErrorResponse(err))
			return
		}
		writeJSON(wr, http.StatusOK, found)
		return
	}

	limit := historyPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(wr, fraction.NewValidationError("limit", v, "некорректный лимит"))
			return
		}
		limit = n
	}

	entries, err := w.interpreter.GetDetailedHistory(limit)
	if err != nil {
		w.log.Error().Err(err).Msg("history read failed")
		writeJSON(wr, http.StatusInternalServerError, models.NewErrorResponse(err))
		return
	}
	writeJSON(wr, http.StatusOK, entries)
}

func (w *WebInterface) handleClearHistory(wr http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(wr, "only POST", http.StatusMethodNotAllowed)
		return
	}

	count, err := w.interpreter.ClearHistory()
	if err != nil {
		w.log.Error().Err(err).Msg("history clear failed")
		writeJSON(wr, http.StatusInternalServerError, models.NewErrorResponse(err))
		return
	}
	writeJSON(wr, http.StatusOK, map[string]int{"cleared": count})
}

func (w *WebInterface) handleIndex(wr http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(wr, r)
		return
	}
	writeJSON(wr, http.StatusOK, map[string]interface{}{
		"service": "fraccalc",
		"routes":  routes,
	})
}

func writeJSON(wr http.ResponseWriter, status int, v interface{}) {
	wr.Header().Set("Content-Type", "application/json")
	wr.WriteHeader(status)
	json.NewEncoder(wr).Encode(v)
}

// writeError - ошибки вычислений отдаются как 400 с типом ошибки
func writeError(wr http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if fraction.Kind(err) == "internal" {
		status = http.StatusInternalServerError
	}
	writeJSON(wr, status, models.NewErrorResponse(err))
}
