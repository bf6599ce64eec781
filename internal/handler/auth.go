package handler

import (
	"errors"
	"net/http"

	"github.com/go-openapi/strfmt"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelops/roster/internal/auth"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

// devAdminEmail identifies the seeded operator account DevLogin issues a
// token for. It is created on first use so a fresh database needs no
// separate seed step to exercise the dashboard in dev mode.
const devAdminEmail = "dev-admin@hotelops.local"

type AuthHandler struct {
	userRepo   *repository.UserRepository
	jwtManager *auth.JWTManager
	authConfig *auth.Config
}

func NewAuthHandler(userRepo *repository.UserRepository, jwtManager *auth.JWTManager, authConfig *auth.Config) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwtManager: jwtManager, authConfig: authConfig}
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.authConfig.JWTExpiry.Seconds()),
	})
}

// DevLogin issues a token for a seeded admin account, for use only when the
// server runs with dev mode enabled.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if !h.authConfig.IsDevMode() {
		respondError(w, http.StatusForbidden, "dev login not available in production")
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), devAdminEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &model.User{Email: devAdminEmail, DisplayName: "Dev Admin", Role: model.RoleAdmin, IsActive: true}
		if err := h.userRepo.Create(r.Context(), user); err != nil {
			respondEngineError(w, err)
			return
		}
	} else if err != nil {
		respondEngineError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email, user.DisplayName, string(user.Role))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.setTokenCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strfmt.IsEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "user is inactive")
		return
	}
	if user.PasswordHash == nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email, user.DisplayName, string(user.Role))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	h.setTokenCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctxUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	token, err := h.jwtManager.Generate(ctxUser.ID, ctxUser.Email, ctxUser.DisplayName, ctxUser.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	h.setTokenCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctxUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, err := h.userRepo.GetWithRelations(r.Context(), ctxUser.ID)
	if err != nil {
		respondJSON(w, http.StatusOK, ctxUser)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
	})
	w.WriteHeader(http.StatusNoContent)
}
