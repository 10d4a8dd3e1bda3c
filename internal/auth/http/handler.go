package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/capitalsapp/capitals/internal/auth/service"
	commonhttp "github.com/capitalsapp/capitals/internal/common/http"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	auth         *service.AuthService
	log          *logger.Logger
	secureCookie bool
}

func NewHandler(auth *service.AuthService, secureCookie bool, log *logger.Logger) *Handler {
	return &Handler{auth: auth, log: log, secureCookie: secureCookie}
}

func (h *Handler) Mount(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/register", h.register)
	router.HandlerFunc(http.MethodPost, "/login", h.login)
	router.HandlerFunc(http.MethodPost, "/logout", h.logout)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := commonhttp.DecodeJSON(r, &creds); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	user, err := h.auth.Register(r.Context(), creds)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    userResponse{ID: user.ID, Username: user.Username},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := commonhttp.DecodeJSON(r, &creds); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	SetSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookie)
	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged in successfully"})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w, h.secureCookie)
	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
