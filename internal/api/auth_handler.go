package api

import (
	"net/http"

	"github.com/packlane/packlane-api/internal/api/shared"
	"github.com/packlane/packlane-api/internal/service/auth"
)

// AuthHandler handles token issuance for the configured operator.
type AuthHandler struct {
	operator *auth.Operator
	tokens   auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(operator *auth.Operator, tokens auth.TokenService) *AuthHandler {
	return &AuthHandler{
		operator: operator,
		tokens:   tokens,
	}
}

// IssueToken handles POST /auth/token requests. It checks the operator
// credentials and returns a bearer token for the API.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name and password are required")
		return
	}

	if err := h.operator.Authenticate(req.Name, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, expiresAt, err := h.tokens.IssueToken(r.Context(), req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}
