package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/humed/photoqueue/internal/errors"
)

const (
	CookieName    = "photoqueue_session"
	SessionExpiry = 24 * time.Hour
)

// Photobooth-themed words for password generation
var boothWords = []string{
	"photo", "booth", "smile", "flash", "frame",
	"lens", "studio", "pose", "print", "bundle",
	"candid", "shutter", "strip", "props", "backdrop",
}

// Roles is the closed set of privilege flags a caller can hold.
// Super admins are implicitly admin-eligible.
type Roles struct {
	PhotoboothAdmin bool `json:"photoboothAdmin"`
	SuperAdmin      bool `json:"superAdmin"`
}

// Identity describes the authenticated caller
type Identity struct {
	ID    string `json:"id"`
	Roles Roles  `json:"roles"`
}

// Membership resolves identifiers to roles. Implemented by the config
// service's admin and super admin lists.
type Membership interface {
	GetAdmins(ctx context.Context) ([]string, error)
	GetSuperAdmins(ctx context.Context) ([]string, error)
}

type session struct {
	identity Identity
	expiry   time.Time
}

// Auth handles operator authentication and role checks
type Auth struct {
	password   string
	membership Membership
	mu         sync.RWMutex
	sessions   map[string]session
}

// New creates a new Auth instance with the given operator password
func New(password string, membership Membership) *Auth {
	return &Auth{
		password:   password,
		membership: membership,
		sessions:   make(map[string]session),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = boothWords[randomInt(len(boothWords))]
	}
	return strings.Join(words, "-")
}

// Login validates the operator password, resolves the identifier's
// roles against the membership lists, and returns a session token.
// Callers on neither list are rejected before they ever reach the
// queue authority.
func (a *Auth) Login(ctx context.Context, identifier, password string) (string, *Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", nil, errors.Validation("identifier is required")
	}
	if password != a.password {
		return "", nil, errors.Unauthorized("invalid password")
	}

	superAdmins, err := a.membership.GetSuperAdmins(ctx)
	if err != nil {
		return "", nil, err
	}
	admins, err := a.membership.GetAdmins(ctx)
	if err != nil {
		return "", nil, err
	}

	identity := Identity{ID: identifier}
	if contains(superAdmins, identifier) {
		identity.Roles.SuperAdmin = true
		identity.Roles.PhotoboothAdmin = true
	} else if contains(admins, identifier) {
		identity.Roles.PhotoboothAdmin = true
	} else {
		return "", nil, errors.Unauthorized("not an administrator")
	}

	token := generateToken()
	a.mu.Lock()
	a.sessions[token] = session{identity: identity, expiry: time.Now().Add(SessionExpiry)}
	a.mu.Unlock()

	return token, &identity, nil
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession returns the identity for a session token, if valid
func (a *Auth) ValidateSession(token string) (*Identity, bool) {
	a.mu.RLock()
	sess, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(sess.expiry) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return nil, false
	}

	identity := sess.identity
	return &identity, true
}

// IdentityFromRequest extracts and validates the session from a request
func (a *Auth) IdentityFromRequest(r *http.Request) (*Identity, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	return a.ValidateSession(cookie.Value)
}

type contextKey struct{}

// IdentityFrom returns the identity stored in the request context by
// the auth middleware
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*Identity)
	return identity, ok
}

// RequireAdmin middleware rejects callers without an admin-eligible session
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.IdentityFromRequest(r)
		if !ok || !identity.Roles.PhotoboothAdmin {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, identity)))
	})
}

// RequireSuperAdmin middleware rejects callers without a super admin session
func (a *Auth) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.IdentityFromRequest(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
			return
		}
		if !identity.Roles.SuperAdmin {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Super admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, identity)))
	})
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"code":"` + code + `","error":"` + message + `"}`))
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
