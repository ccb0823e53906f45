package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lkemp/userbase/internal/api/shared"
	"github.com/lkemp/userbase/internal/platform/logger"
	"github.com/lkemp/userbase/internal/service"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      log.With(slog.String("component", "user_handler")),
	}
}

// Ensure UserHandler implements the RouteProvider capability
var _ RouteProvider = (*UserHandler)(nil)

// Routes enumerates the user CRUD operations for the router composer.
func (h *UserHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/users", Handler: h.ListUsers},
		{Method: http.MethodPost, Pattern: "/users", Handler: h.CreateUser},
		{Method: http.MethodGet, Pattern: "/users/{id}", Handler: h.GetUser},
		{Method: http.MethodPut, Pattern: "/users/{id}", Handler: h.UpdateUser},
		{Method: http.MethodDelete, Pattern: "/users/{id}", Handler: h.DeleteUser},
	}
}

// ListUsers handles GET /users requests.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, userToResponse(&users[i]))
	}

	log.Debug("listed users", slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateUser handles POST /users requests.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode create user request", slog.String("error", err.Error()))
		shared.RespondWithValidationError(w, r, "Invalid request body",
			[]shared.FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("create user request failed validation", slog.String("error", err.Error()))
		shared.RespondWithValidationError(w, r, "Invalid user data", validationFieldErrors(err))
		return
	}

	var createdAt time.Time
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	user, err := h.userService.CreateUser(r.Context(), req.ID, req.Name, req.Email, createdAt)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("user created", slog.String("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// GetUser handles GET /users/{id} requests.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("user ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT /users/{id} requests.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("user ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "User ID is required")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode update user request", slog.String("error", err.Error()))
		shared.RespondWithValidationError(w, r, "Invalid request body",
			[]shared.FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("update user request failed validation", slog.String("error", err.Error()))
		shared.RespondWithValidationError(w, r, "Invalid user data", validationFieldErrors(err))
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req.Name, req.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("user updated", slog.String("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteUser handles DELETE /users/{id} requests.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Warn("user ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "User ID is required")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("user deleted", slog.String("user_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessMessageResponse{Message: "User deleted successfully"})
}
