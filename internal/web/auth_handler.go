package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ResetNotifier is the slice of the notifier the auth flow needs.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, username, email, resetURL string) error
}

type AuthHandler struct {
	users    auth.UserRepository
	sessions *auth.SessionManager
	resets   *auth.ResetService
	mailer   ResetNotifier
	baseURL  string
}

func NewAuthHandler(users auth.UserRepository, sessions *auth.SessionManager, resets *auth.ResetService, mailer ResetNotifier, baseURL string) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		resets:   resets,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

type RegisterRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserResponseDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username, email and password are required")
		return
	}
	role := auth.Role(req.Role)
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_role", "role must be vendor or buyer")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	user := &auth.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	h.startSession(w, r, user)
	respondJSON(w, http.StatusCreated, toUserDTO(user))
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, auth.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.startSession(w, r, user)
	respondJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("session destroy failed: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

type ForgotPasswordRequestDTO struct {
	Email string `json:"email"`
}

// ForgotPassword always answers 202: an unknown address must be
// indistinguishable from a known one.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err == nil {
		token, issueErr := h.resets.IssueToken(r.Context(), user)
		if issueErr != nil {
			log.Printf("reset token issue failed: %v", issueErr)
		} else {
			resetURL := fmt.Sprintf("%s/reset_password/%s", h.baseURL, token)
			if sendErr := h.mailer.SendPasswordReset(r.Context(), user.Username, user.Email, resetURL); sendErr != nil {
				log.Printf("reset email send failed: %v", sendErr)
			}
		}
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		log.Printf("user lookup by email failed: %v", err)
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "email sent if the address is registered"})
}

type ResetPasswordRequestDTO struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ResetPasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Password == "" || req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "password_mismatch", "passwords do not match")
		return
	}

	if err := h.resets.ConsumeToken(r.Context(), token, req.Password); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *auth.User) {
	sessionID, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("session create failed: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func toUserDTO(user *auth.User) UserResponseDTO {
	return UserResponseDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}
