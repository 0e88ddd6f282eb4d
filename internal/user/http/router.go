package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/taskflow/backend/internal/common/http"
	"github.com/AlibekovAA/taskflow/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
	"github.com/AlibekovAA/taskflow/backend/internal/user/domain"
	"github.com/AlibekovAA/taskflow/backend/internal/user/service"
)

// UserResponse is the public shape of a user; the password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"_id"`
	Login     string    `json:"login"`
	Sex       string    `json:"sex,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        string(u.ID),
		Login:     u.Login,
		Sex:       u.Sex,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type profileResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type Handler struct {
	users  *service.Service
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(users *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		users:  users,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
}

// Register mounts the profile routes. r must already require a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Get("/getProfile", h.getProfile)
	r.Post("/editProfile/{id}", h.editProfile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingToken)
		return
	}

	user, err := h.users.GetProfile(r.Context(), domain.ID(claims.UserID))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{User: ToResponse(user)})
}

func (h *Handler) editProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrMissingToken)
		return
	}

	targetID, err := commonhttp.URLParam(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var input service.EditProfileInput
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": claims.UserID,
			"action":  "edit_profile_invalid_json",
		}).Warnf("edit profile failed: invalid json: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.EditProfile(r.Context(), domain.ID(claims.UserID), domain.ID(targetID), input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{Message: "profile updated", User: ToResponse(user)})
}
