package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"finadvise-backend/pkg/logging"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Handler struct {
	users  *Directory
	secret []byte
	ttl    time.Duration
	logger *logging.Logger
}

func NewHandler(users *Directory, secret []byte, ttl time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{users: users, secret: secret, ttl: ttl, logger: logger}
}

// Token handles POST /token with an OAuth2 password form.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeDetail(w, http.StatusBadRequest, "username & password required")
		return
	}

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	if user.Disabled {
		writeDetail(w, http.StatusBadRequest, "Inactive user")
		return
	}

	token, err := GenerateToken(h.secret, user.Username, h.ttl)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign token")
		writeDetail(w, http.StatusInternalServerError, "token error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me. Must run behind Middleware.Require.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, ok := h.users.Lookup(subject)
	if !ok {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Disabled {
		writeDetail(w, http.StatusBadRequest, "Inactive user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
