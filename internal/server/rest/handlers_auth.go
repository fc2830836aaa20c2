package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoURL"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type claimResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

type presignRequest struct {
	ContentType string `json:"contentType"`
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Event Aura is running"))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "userId": user.ID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	sess, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.Token, sess.Identity.ExpiresAt))
	writeJSON(w, http.StatusOK, map[string]any{
		"user": profileResponse{Name: sess.User.Name, PhotoURL: sess.User.PhotoURL},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), sessionToken(r)); err != nil {
		// the cookie is cleared regardless
		h.logger.Error(r.Context(), "token revocation failed", "error", err,
			"request_id", requestIDFromContext(r.Context()))
	}
	http.SetCookie(w, h.clearedCookie())
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	user, err := h.users.Me(r.Context(), identity)
	if err != nil {
		h.fail(w, r, err, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Name: user.Name, PhotoURL: user.PhotoURL})
}

func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	identity, err := h.users.CheckAuth(r.Context(), token)
	if err != nil {
		status, msg := mapServiceError(err, "Server error")
		if status == http.StatusUnauthorized {
			msg = "Invalid token"
		}
		writeMessage(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": claimResponse{
		ID:   identity.UserID,
		Name: identity.Name,
		Iat:  identity.IssuedAt.Unix(),
		Exp:  identity.ExpiresAt.Unix(),
	}})
}

func (h *Handler) presignPhoto(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			h.fail(w, r, err, "Server error")
			return
		}
	}

	up, err := h.photos.PresignUpload(r.Context(), req.ContentType)
	if err != nil {
		h.fail(w, r, err, "Failed to prepare upload")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key":       up.Key,
		"uploadURL": up.UploadURL,
		"photoURL":  up.PhotoURL,
	})
}

func (h *Handler) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// fail writes the mapped error response and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := mapServiceError(err, fallback)
	if status >= 500 {
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
	}
	writeMessage(w, status, msg)
}
