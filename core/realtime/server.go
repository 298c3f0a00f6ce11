package realtime

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"fraccalc/core/fraction"
	"fraccalc/core/interpreter"
	"fraccalc/logger"
	"fraccalc/metrics"
	"fraccalc/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	EventCalculate   = "calculate"
	EventCalculation = "calculation"
	EventResult      = "result"
	EventError       = "error"
	EventPing        = "ping"
	EventPong        = "pong"

	writeWait = 5 * time.Second
)

// Calculator - то, что сервер умеет вызывать и на что подписывается
type Calculator interface {
	Calculate(op string, a, b fraction.Fraction) (interpreter.Outcome, error)
	Subscribe(fn func(interpreter.Outcome)) func()
}

type Options struct {
	Secret   string
	Username string
	Password string
	TokenTTL time.Duration
}

type Claims struct {
	Username string `json:"sub"`
	jwt.RegisteredClaims
}

type client struct {
	id       string
	username string
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

func (c *client) send(event models.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(event)
}

// Server - выдача JWT и WebSocket канал вычислений с рассылкой результатов
type Server struct {
	calc        Calculator
	opts        Options
	mu          sync.RWMutex
	clients     map[string]*client
	upgrader    websocket.Upgrader
	log         zerolog.Logger
	unsubscribe func()
}

func NewServer(calc Calculator, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 60 * time.Minute
	}

	s := &Server{
		calc:    calc,
		opts:    opts,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger.Component("realtime"),
	}

	s.unsubscribe = calc.Subscribe(func(o interpreter.Outcome) {
		s.Broadcast(models.Event{Event: EventCalculation, Data: models.NewCalculateResponse(o)})
	})
	return s
}

// Register - маршруты сервера на mux
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/ws", s.handleWebSocket)
}

// CreateToken - подписанный токен для пользователя
func (s *Server) CreateToken(username string) (string, time.Time, error) {
	expires := time.Now().Add(s.opts.TokenTTL)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.opts.Secret))
	return signed, expires, err
}

// VerifyToken - проверка токена, возвращает имя пользователя
func (s *Server) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims.Username, nil
	}
	return "", errors.New("invalid token")
}

// AuthMiddleware - проверка заголовка Authorization: Bearer <token>
func (s *Server) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		username, err := s.VerifyToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		r.Header.Set("X-Username", username)
		next(w, r)
	}
}

func (s *Server) checkCredentials(req models.LoginRequest) bool {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.opts.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.opts.Password)) == 1
	return userOK && passOK
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}
	if !s.checkCredentials(req) {
		s.log.Warn().Str("username", req.Username).Msg("login rejected")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, expires, err := s.CreateToken(req.Username)
	if err != nil {
		http.Error(w, "Failed to create token", http.StatusInternalServerError)
		return
	}

	s.log.Info().Str("username", req.Username).Msg("user logged in")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LoginResponse{Token: token, ExpiresAt: expires.Unix()})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	username, err := s.VerifyToken(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{id: uuid.NewString(), username: username, conn: conn}
	s.addClient(c)
	defer s.removeClient(c)

	s.log.Info().Str("username", username).Str("client", c.id).Msg("websocket connected")

	for {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn().Err(err).Str("client", c.id).Msg("websocket read failed")
			}
			return
		}

		reply := s.handleMessage(msg)
		if err := c.send(reply); err != nil {
			s.log.Warn().Err(err).Str("client", c.id).Msg("websocket write failed")
			return
		}
	}
}

// handleMessage - ответ на одно входящее сообщение
func (s *Server) handleMessage(msg models.WSMessage) models.Event {
	switch msg.Event {
	case EventPing:
		return models.Event{Event: EventPong}

	case EventCalculate:
		var req models.CalculateRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return errorEvent(fraction.NewValidationError("data", "", "некорректный запрос"))
		}
		a, err := req.First.Parse()
		if err != nil {
			return errorEvent(fmt.Errorf("первая дробь: %w", err))
		}
		b, err := req.Second.Parse()
		if err != nil {
			return errorEvent(fmt.Errorf("вторая дробь: %w", err))
		}

		outcome, err := s.calc.Calculate(req.Op, a, b)
		if err != nil {
			return errorEvent(err)
		}
		return models.Event{Event: EventResult, Data: models.NewCalculateResponse(outcome)}
	}

	return errorEvent(fraction.NewValidationError("event", msg.Event, "неизвестное событие"))
}

func errorEvent(err error) models.Event {
	return models.Event{Event: EventError, Data: models.NewErrorResponse(err)}
}

// Broadcast - рассылка события всем подключённым клиентам
func (s *Server) Broadcast(event models.Event) {
	s.mu.RLock()
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.RUnlock()

	for _, c := range targets {
		go func(c *client) {
			if err := c.send(event); err != nil {
				s.log.Debug().Err(err).Str("client", c.id).Msg("broadcast failed")
			}
		}(c)
	}
}

// ClientCount - число активных соединений
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close - отписка от вычислений и закрытие всех соединений
func (s *Server) Close() {
	s.unsubscribe()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		c.conn.Close()
		delete(s.clients, id)
	}
	metrics.ActiveWebSocketConnections.Set(0)
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	metrics.ActiveWebSocketConnections.Set(float64(len(s.clients)))
	s.mu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		metrics.ActiveWebSocketConnections.Set(float64(len(s.clients)))
	}
	s.mu.Unlock()
	c.conn.Close()

	s.log.Info().Str("username", c.username).Str("client", c.id).Msg("websocket disconnected")
}
