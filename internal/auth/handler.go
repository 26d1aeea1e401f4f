package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/pkg"

	log "github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		http.Error(w, "error, username or password empty", http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(ctx, loginReq.Username, loginReq.Password, time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed for [%s]: %s", loginReq.Username, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	loginRespJson, err := json.Marshal(LoginResponse{Token: token})
	if err != nil {
		log.Errorf("failed to marshal login response: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(loginRespJson))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	token := r.Header.Get("X-CRUX-TOKEN")
	if token == "" {
		http.Error(w, "error, token empty", http.StatusBadRequest)
		return
	}

	if err := h.service.Logout(ctx, token); err != nil {
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}
