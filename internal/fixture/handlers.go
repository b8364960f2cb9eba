package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/mythgarden-console/internal/logger"
	"github.com/jwebster45206/mythgarden-console/internal/middleware"
)

const (
	SessionCookie = "sessionid"
	CSRFCookie    = "csrftoken"
	CSRFHeader    = "X-CSRFToken"
)

// homeKeys are the snapshot fields embedded in the game page.
var homeKeys = []string{
	keyAchievements, keyActions, keyBuildings, keyClock, keyHero, keyInventory,
	keyLocalItems, keyMessages, keyPlace, keyPortraitURLs, keyVillagers, keyWallet,
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Mythgarden</title></head>
<body>
<main id="app"></main>
<script id="app-data" type="application/json">{{.}}</script>
</body>
</html>
`))

// Server serves the game over HTTP.
type Server struct {
	store  *Store
	logger *slog.Logger
}

func NewServer(store *Store, logger *slog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Handler returns the routed, logged handler.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.home)
	mux.HandleFunc("POST /action", srv.action)
	mux.HandleFunc("POST /user_data", srv.userData)
	mux.HandleFunc("GET /settings", srv.settings)
	mux.HandleFunc("POST /settings", srv.updateSettings)
	mux.HandleFunc("GET /kys", srv.restart)
	mux.HandleFunc("GET /health", srv.health)
	return middleware.Logger(srv.logger, mux)
}

type errorResponse struct {
	Error    string `json:"error"`
	Messages any    `json:"messages,omitempty"`
}

type gameOverResponse struct {
	GameOver bool `json:"gameOver"`
}

func (srv *Server) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := srv.requestLogger(r)

	s, err := srv.sessionFrom(ctx, r)
	if errors.Is(err, ErrSessionNotFound) {
		s = NewSession()
		log.Info("Started new session", "session_id", s.ID)
		err = srv.store.Save(ctx, s)
	}
	if err != nil {
		logger.WithError(log, err).Error("Failed to load session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: s.ID, Path: "/", HttpOnly: true, MaxAge: int(SessionTTL / time.Second)})
	http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: s.CSRFToken, Path: "/", MaxAge: int(SessionTTL / time.Second)})

	data := Pick(s.View(), homeKeys)
	if s.GameOver {
		over := true
		data.GameOver = &over
	}
	raw, err := json.Marshal(data)
	if err != nil {
		logger.WithError(log, err).Error("Failed to encode app data")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, template.JS(raw)); err != nil {
		logger.WithError(log, err).Error("Failed to render page")
	}
}

type actionRequest struct {
	Digest string `json:"uniqueDigest"`
}

func (srv *Server) action(w http.ResponseWriter, r *http.Request) {
	s, ok := srv.authorized(w, r)
	if !ok {
		return
	}
	log := srv.requestLogger(r).With("session_id", s.ID)

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Digest == "" {
		srv.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	log = log.With("digest", req.Digest)

	if s.GameOver {
		srv.writeJSON(w, http.StatusOK, gameOverResponse{GameOver: true})
		return
	}

	applyErr := Apply(s, req.Digest)
	fresh := s.takeFresh()
	if err := srv.store.Save(r.Context(), s); err != nil {
		logger.WithError(log, err).Error("Failed to save session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var verr *ValidationError
	if errors.As(applyErr, &verr) {
		log.Info("Action rejected", "reason", verr.Text)
		srv.writeJSON(w, http.StatusOK, errorResponse{Error: verr.Text, Messages: s.Messages})
		return
	}
	if s.GameOver {
		log.Info("Game over", "score", s.Hero.Score)
		srv.writeJSON(w, http.StatusOK, gameOverResponse{GameOver: true})
		return
	}

	log.Debug("Action applied", "fresh", fresh)
	srv.writeJSON(w, http.StatusOK, Pick(s.View(), fresh))
}

type userDataRequest struct {
	UserData struct {
		Name         string `json:"name"`
		PortraitPath string `json:"portraitPath"`
	} `json:"userData"`
}

type userDataResponse struct {
	Hero     any `json:"hero"`
	Messages any `json:"messages"`
}

func (srv *Server) userData(w http.ResponseWriter, r *http.Request) {
	s, ok := srv.authorized(w, r)
	if !ok {
		return
	}

	var req userDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		srv.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	_, err := SetUserData(s, req.UserData.Name, req.UserData.PortraitPath)
	s.takeFresh()
	if saveErr := srv.store.Save(r.Context(), s); saveErr != nil {
		logger.WithError(srv.requestLogger(r), saveErr).Error("Failed to save session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		srv.writeJSON(w, http.StatusOK, errorResponse{Error: verr.Text, Messages: s.Messages})
		return
	}
	srv.writeJSON(w, http.StatusOK, userDataResponse{Hero: s.Hero, Messages: s.Messages})
}

func (srv *Server) settings(w http.ResponseWriter, r *http.Request) {
	s, err := srv.sessionFrom(r.Context(), r)
	if err != nil {
		srv.sessionError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, s.Settings)
}

func (srv *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	s, ok := srv.authorized(w, r)
	if !ok {
		return
	}

	var changes map[string]any
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		srv.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if err := UpdateSettings(s, changes); err != nil {
		srv.writeJSON(w, http.StatusOK, errorResponse{Error: "⚠️ " + err.Error()})
		return
	}
	if err := srv.store.Save(r.Context(), s); err != nil {
		logger.WithError(srv.requestLogger(r), err).Error("Failed to save session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	srv.writeJSON(w, http.StatusOK, s.Settings)
}

// restart resets the run and sends the player back to the game page.
func (srv *Server) restart(w http.ResponseWriter, r *http.Request) {
	s, err := srv.sessionFrom(r.Context(), r)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			srv.sessionError(w, r, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	Restart(s)
	s.takeFresh()
	if err := srv.store.Save(r.Context(), s); err != nil {
		logger.WithError(srv.requestLogger(r), err).Error("Failed to save session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	srv.requestLogger(r).Info("Run restarted", "session_id", s.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

func (srv *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Service:    "mythgarden-fixture",
		Components: map[string]string{"redis": "healthy"},
	}
	status := http.StatusOK
	if err := srv.store.Ping(ctx); err != nil {
		srv.logger.Warn("Redis health check failed", "error", err)
		resp.Status = "degraded"
		resp.Components["redis"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	srv.writeJSON(w, status, resp)
}

// authorized loads the session of a POST and checks its anti-forgery token.
func (srv *Server) authorized(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := srv.sessionFrom(r.Context(), r)
	if err != nil {
		srv.sessionError(w, r, err)
		return nil, false
	}

	token := r.Header.Get(CSRFHeader)
	cookie, cookieErr := r.Cookie(CSRFCookie)
	if token == "" || cookieErr != nil || cookie.Value != token || token != s.CSRFToken {
		srv.requestLogger(r).Warn("CSRF check failed", "session_id", s.ID)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return s, true
}

func (srv *Server) sessionFrom(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return srv.store.Load(ctx, cookie.Value)
}

func (srv *Server) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	logger.WithError(srv.requestLogger(r), err).Error("Failed to load session")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (srv *Server) requestLogger(r *http.Request) *slog.Logger {
	return logger.WithRequestID(srv.logger, r.Header.Get(middleware.RequestIDHeader))
}

func (srv *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		srv.logger.Error("Error encoding response", "error", err)
	}
}
