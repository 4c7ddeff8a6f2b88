package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/studyhall/studyhall/pkg/auth"
	"github.com/studyhall/studyhall/pkg/httputil"
	"github.com/studyhall/studyhall/pkg/observability"
	"github.com/studyhall/studyhall/pkg/users"
)

// AuthHandlers handles registration and login
type AuthHandlers struct {
	users   *users.Store
	hasher  *auth.PasswordHasher
	manager *auth.Manager
	codec   *auth.TokenCodec
	metrics *observability.Metrics
	logger  *logrus.Logger
}

// NewAuthHandlers creates a new auth handlers instance. metrics may be nil
// when metrics are disabled.
func NewAuthHandlers(store *users.Store, hasher *auth.PasswordHasher, manager *auth.Manager,
	codec *auth.TokenCodec, metrics *observability.Metrics, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:   store,
		hasher:  hasher,
		manager: manager,
		codec:   codec,
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.login).Methods("POST")
}

// register handles POST /api/auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	// The email is checked before the expensive hash so duplicate signups
	// fail fast
	taken, err := h.users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check email")
		httputil.WriteInternalError(w, err)
		return
	}
	if taken {
		httputil.WriteJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Email already in use",
		})
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	user := &users.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		httputil.WriteInternalError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RegistrationsTotal.Inc()
	}
	h.logger.WithField("user_id", user.ID).Info("User registered")
	httputil.WriteCreated(w, ApiResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// login handles POST /api/auth/login. A failed login answers 401 with the
// same JwtResponse shape as a success, both fields null.
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	principal, err := h.manager.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrAuthenticationFailed) {
		if h.metrics != nil {
			h.metrics.ObserveLogin("failure")
		}
		httputil.WriteJSON(w, http.StatusUnauthorized, JwtResponse{})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Login failed")
		httputil.WriteInternalError(w, err)
		return
	}

	token, err := h.codec.Issue(principal.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		httputil.WriteInternalError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveLogin("success")
		h.metrics.TokensIssuedTotal.Inc()
	}
	h.logger.WithField("user_id", principal.ID).Info("User logged in")
	httputil.WriteSuccess(w, JwtResponse{Token: &token, UserID: &principal.ID})
}
