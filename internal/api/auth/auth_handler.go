package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/libreton/libreton-api/internal/api"
	"github.com/libreton/libreton-api/internal/types"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	authService AuthService
	validator   *AuthValidator
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, validator *AuthValidator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register User
// @Description  Creates a new account. Username and email must be unique.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.RegisterRequest true "Registration payload"
// @Success      200 {object} types.Response "User registered"
// @Failure      400 {object} types.Response "Validation failed"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	validationErrors, err := h.validator.ValidateRegister(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Registration validation failed internally", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}
	if len(validationErrors) > 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.MsgValidationFailed, validationErrors...)
		return
	}

	if err := h.authService.Register(ctx, req); err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		if errors.Is(err, types.ErrConflict) {
			// Lost the check-then-insert race; the DB constraint decided.
			api.ErrorResponse(w, r, http.StatusBadRequest, types.MsgValidationFailed,
				"Username or email is already registered.")
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, true, "User registered successfully")
}

// Login godoc
// @Summary      Login
// @Description  Verifies credentials and issues a session token with a 30-minute absolute expiry.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.LoginRequest true "Credentials"
// @Success      200 {object} types.Response{data=types.LoginResponse} "Session issued"
// @Failure      400 {object} types.Response "Validation failed"
// @Failure      401 {object} types.Response "Invalid credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if validationErrors := h.validator.ValidateLogin(req); len(validationErrors) > 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, types.MsgValidationFailed, validationErrors...)
		return
	}

	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, types.MsgInvalidCredentials)
			return
		}
		l.ErrorContext(ctx, "Login failed internally", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, result, "Login successful")
}

// Logout godoc
// @Summary      Logout
// @Description  Removes the session identified by the X-Session-Token header. Idempotent.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        X-Session-Token header string true "Session token"
// @Success      200 {object} types.Response "Logged out"
// @Failure      400 {object} types.Response "Missing token header"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.Header.Get(types.SessionHeaderName)
	if token == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Session token not provided")
		return
	}

	if err := h.authService.Logout(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, types.MsgInternalServerError)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, true, "Logout successful")
}
