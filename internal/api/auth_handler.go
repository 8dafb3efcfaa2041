package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/service/auth"
	"github.com/overlaylab/rater-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	provider         BackendProvider
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	provider BackendProvider,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		provider:         provider,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Login handles the /api/auth/login endpoint. Unknown emails and wrong
// passwords produce the same response. The first successful login clears
// the rater's help flag after reporting it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	backend, err := h.provider.Current()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rater, err := backend.Raters.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrRaterNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		slog.Error("failed to look up rater", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := h.passwordVerifier.Compare(rater.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), rater.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "rater_id", rater.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	showHelp := rater.ShowHelp
	if showHelp {
		if err := backend.Raters.ClearShowHelp(r.Context(), rater.ID); err != nil {
			// The rater will see the help screen again next login; not
			// worth failing the login over.
			slog.Warn("failed to clear show_help flag", "error", err, "rater_id", rater.ID)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		RaterID:  rater.ID,
		Token:    token,
		ShowHelp: showHelp,
	})
}
