package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hasanbasri/attendance-management/internal/transport"
	"github.com/hasanbasri/attendance-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Login handles POST /auth/login. The response carries the session snapshot
// alongside the token pair; the client persists the snapshot as its session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, tokens, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid username or password")
		case ErrUpstreamUnavailable:
			h.WriteError(w, http.StatusServiceUnavailable, "credential store unreachable, try again")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{User: snap, Tokens: tokens})
}

type LoginResponse struct {
	User   *Snapshot  `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// RefreshToken handles POST /auth/refresh.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		switch err {
		case ErrInvalidToken, ErrTokenExpired:
			h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshPermissions handles GET /auth/permissions: it re-reads the
// authoritative capability flags for the calling session. A 401 with code
// SESSION_INVALIDATED tells the client to clear its stored session.
func (h *Handler) RefreshPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	snap, err := h.Service.RefreshPermissions(r.Context(), user.ID)
	if err != nil {
		switch err {
		case ErrSessionInvalidated:
			h.Logger.Warn("permission refresh found account gone or inactive", "user_id", user.ID)
			h.WriteError(w, http.StatusUnauthorized, "session is no longer valid")
		case ErrUpstreamUnavailable:
			h.WriteError(w, http.StatusServiceUnavailable, "credential store unreachable, try again")
		default:
			h.Logger.Error("permission refresh failed", "error", err, "user_id", user.ID)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, snap)
}

// Logout handles POST /auth/logout. Tokens are stateless so there is
// nothing to revoke server-side; the client clears its session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token and loads a fresh snapshot into
// the request context. A user deactivated mid-session is rejected here on
// their next request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		uid, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			h.Logger.Warn("failed to parse user id from token claims", "value", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		snap, err := h.Service.SnapshotForUser(uid)
		if err != nil {
			switch err {
			case ErrSessionInvalidated:
				h.WriteError(w, http.StatusUnauthorized, "session is no longer valid")
			case ErrUpstreamUnavailable:
				h.WriteError(w, http.StatusServiceUnavailable, "credential store unreachable, try again")
			default:
				h.WriteError(w, http.StatusUnauthorized, "user not found")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), snap)))
	})
}
