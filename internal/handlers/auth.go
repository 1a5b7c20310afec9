package handlers

import (
	"net/http"

	"github.com/humed/photoqueue/internal/auth"
)

// handleLogin authenticates an operator and starts a session
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, identity, err := h.Auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, UserResponse{User: identity})
}

// handleLogout tears down the caller's session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleMe returns the caller's identity and role flags
func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.Auth.IdentityFromRequest(r)
	if !ok {
		respondError(w, Unauthorized("Not logged in"))
		return
	}
	respondOK(w, UserResponse{User: identity})
}
