package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service *services.AccountService
	logger  logging.Logger
}

func NewHandler(s *services.AccountService, l logging.Logger) *Handler {
	return &Handler{service: s, logger: l}
}

// Router wires the public endpoints.
func (h *Handler) Router() *httprouter.Router {
	r := httprouter.New()
	r.HandlerFunc(http.MethodPost, "/api/v1/accounts", h.RegisterAccount)
	r.HandlerFunc(http.MethodPost, "/api/v1/sessions", h.CreateSession)
	r.HandlerFunc(http.MethodGet, "/api/v1/accounts/me", h.withIdentity(h.Me))
	r.HandlerFunc(http.MethodGet, "/api/v1/ping", h.Ping)
	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type sessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

type identityResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	account, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Warn(r.Context(), "registration failed", "reason", err.Error())
		h.writeError(w, err)
		return
	}

	h.logger.Info(r.Context(), "account registered", "account_id", account.ID)
	writeJSON(w, http.StatusCreated, registerResponse{ID: account.ID})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, identityResponse{AccountID: id.AccountID, Email: id.Email})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// writeError maps the service error taxonomy onto transport status codes.
// Each kind keeps its own code so callers can react distinctly; nothing is
// collapsed into a generic 500 unless it really is an internal defect.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.Is(err, common.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrDuplicateAccount):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "account already exists"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidSignature),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMalformedToken):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, common.ErrStorage):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
