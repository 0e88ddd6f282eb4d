package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/taskflow/backend/internal/auth/service"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/taskflow/backend/internal/common/http"
	"github.com/AlibekovAA/taskflow/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	userhttp "github.com/AlibekovAA/taskflow/backend/internal/user/http"
)

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Sex      string `json:"sex"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string                `json:"message"`
	User    userhttp.UserResponse `json:"user"`
}

type tokenResponse struct {
	Message   string    `json:"message,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	auth   *service.AuthService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(auth *service.AuthService, log *logger.Logger) *Handler {
	return &Handler{
		auth:   auth,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
}

// Register mounts the credential routes. /refreshToken reads the bearer
// token itself so that it can be re-issued.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registration", h.register)
	r.Post("/login", h.login)
	r.Post("/refreshToken", h.refresh)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: invalid json: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Login:    req.Login,
		Password: req.Password,
		Sex:      req.Sex,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "user created",
		User:    userhttp.ToResponse(user),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	token, err := h.auth.Login(r.Context(), service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Message:   "logged in",
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := jwtverify.BearerToken(r)
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingToken)
		return
	}

	token, err := h.auth.Refresh(r.Context(), raw)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}
