package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/services"
	"github.com/dmitrijs2005/gophgallery/internal/validation"
)

// Authenticator is the account surface the handlers need.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Check(ctx context.Context, token string) (*models.User, error)
}

const (
	msgMissingFields = "Email and password are required."
	msgUserExists    = "User already exists."
	msgBadCredential = "Invalid email or password."
	msgNoToken       = "No token."
	msgBadToken      = "Invalid token."
	msgInternal      = "Internal server error."
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type handlers struct {
	auth Authenticator
	log  logging.Logger
}

// decodeCredentials writes the 400 response itself and returns false when
// the body is unusable.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateStruct(req); err != nil {
		w.Header().Set("Cache-Control", "no-store")
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:  msgMissingFields,
			Fields: validation.FieldErrors(err),
		})
		return req, false
	}
	return req, true
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	s, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.log.Info(r.Context(), "user signed up", "user_id", s.ID)
		respondJSON(w, http.StatusOK, sessionResponse{ID: s.ID, Email: s.Email, Token: s.Token})
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, msgUserExists)
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgMissingFields)
	default:
		h.log.Error(r.Context(), "signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	s, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, sessionResponse{ID: s.ID, Email: s.Email, Token: s.Token})
	case errors.Is(err, common.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, msgBadCredential)
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgMissingFields)
	default:
		h.log.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *handlers) check(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgNoToken)
		return
	}

	u, err := h.auth.Check(r.Context(), token)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, msgBadToken)
	default:
		h.log.Error(r.Context(), "token check failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// bearerToken extracts the token from the Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get(common.AuthorizationHeaderName))
	prefix := common.BearerPrefix
	if len(v) < len(prefix) || !strings.EqualFold(v[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(v[len(prefix):])
}
