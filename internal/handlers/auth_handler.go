package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
)

// AuthHandler serves signup, login, logout and onboarding.
type AuthHandler struct {
	Service       *services.AuthService
	SecureCookies bool
}

func NewAuthHandler(service *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{Service: service, SecureCookies: secureCookies}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Service.TokenExpiry() / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.SecureCookies,
	})
}

// SignupHandler handles POST /api/auth/signup.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Log.Warnf("Invalid signup payload: %v", err)
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := h.Service.Signup(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "sign up")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User Created Successfully",
		"user":    user,
	})
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Log.Warnf("Invalid login payload: %v", err)
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, token, err := h.Service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// LogoutHandler clears the session cookie. Tokens stay valid until they expire.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.SecureCookies,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout Successful",
	})
}

// OnboardingHandler handles POST /api/auth/onboarding.
func (h *AuthHandler) OnboardingHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	var profile models.OnboardingProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		logger.Log.Warnf("Invalid onboarding payload: %v", err)
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Service.Onboard(r.Context(), me.ID, profile)
	if err != nil {
		writeError(w, r, err, "onboard user")
		return
	}

	logger.Log.Infof("User %s completed onboarding", me.ID.Hex())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// MeHandler returns the authenticated user.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    me,
	})
}

// ChatTokenHandler issues a chat provider token for the authenticated user.
func (h *AuthHandler) ChatTokenHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	token, err := h.Service.ChatToken(me.ID)
	if err != nil {
		writeError(w, r, err, "create chat token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
