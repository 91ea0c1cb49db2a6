package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rs/xid"

	"github.com/bdec/jobboard/internal/auth"
	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/service"
)

// AuthHandler exposes registration, the two login paths (local credential
// and Google), the identity probe, and the browser-redirect Google flow.
type AuthHandler struct {
	auths  *service.AuthService
	google *auth.GoogleProvider // nil when the code flow isn't configured
	// frontendURL is where the browser flow lands after a successful login.
	frontendURL string
	logger      *slog.Logger
}

func NewAuthHandler(auths *service.AuthService, google *auth.GoogleProvider, frontendURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:       auths,
		google:      google,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// authResponse is the body of every successful auth call.
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a local account.
//
// HTTP: POST /api/auth/register
// Responses: 201 {token,user} | 400 conflict (duplicate email)
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies a local credential pair.
//
// HTTP: POST /api/auth/login
// Responses: 200 {token,user} | 400 invalid_credentials
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// googleRequest mirrors what the Google Sign-In button posts. The implicit
// fields are only honoured when the server explicitly allows that mode.
type googleRequest struct {
	IDToken    string `json:"idToken"`
	IsImplicit bool   `json:"isImplicit"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// HandleGoogle signs a user in from a Google ID token, provisioning a
// local account on first login.
//
// HTTP: POST /api/auth/google
// Responses: 200 {token,user} | 400 | 401 invalid_token
func (h *AuthHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.LoginGoogle(r.Context(), service.GoogleLogin{
		IDToken:  req.IDToken,
		Implicit: req.IsImplicit,
		Email:    req.Email,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleMe returns the identity claims of the presented token.
//
// HTTP: GET /api/auth/me (RequireAuth)
//
// Deliberately no database read: the response is the token's own claims,
// which is exactly what downstream authorization uses. A stale name or
// role here means the token predates the change.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't panic if rewired.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "authentication token required",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    claims.UserID,
			"email": claims.Email,
			"role":  claims.Role,
			"name":  claims.Name,
		},
	})
}

// HandleGoogleLogin starts the browser-redirect Google flow.
//
// HTTP: GET /auth/google/login
//
// The random state lands in a short-lived HttpOnly cookie; the callback
// must echo it back, which a cross-site forger can't arrange.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Google login is not configured",
		})
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the browser-redirect flow: state check,
// code exchange, login, then a redirect to the frontend carrying the
// session token.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("google callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// Single-use: clear the state cookie whatever happens next.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("google callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, h.frontendURL+"/login?error=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	identity, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.auths.LoginFederated(r.Context(), identity)
	if err != nil {
		h.logger.Error("google callback: login failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	redirect := fmt.Sprintf("%s/login?token=%s", h.frontendURL, url.QueryEscape(result.Token))
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}
