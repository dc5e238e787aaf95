package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/server/services"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type confirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Register(r.Context(), services.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	h.metrics.authOutcome("register", err)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorValidation:    "email and password are required",
			common.ErrorAlreadyExists: "registration failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	h.metrics.authOutcome("login", err)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorUnauthorized: "invalid email or password",
		})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.auth.ResetPassword(r.Context(), req.Email, req.NewPassword)
	h.metrics.authOutcome("reset_password", err)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorValidation: "email and new password are required",
			common.ErrorNotFound:   "user not found",
			common.ErrorForbidden:  "direct password reset is disabled",
		})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.auth.RequestPasswordReset(r.Context(), req.Email)
	h.metrics.authOutcome("forgot_password", err)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorValidation: "email is required",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, messageResponse{Message: "if the account exists, a reset token has been sent"})
}

func (h *Handler) confirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.auth.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
	h.metrics.authOutcome("confirm_reset", err)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorValidation:      "token and new password are required",
			common.ErrInvalidToken:      "invalid reset token",
			common.ErrResetTokenExpired: "reset token expired",
		})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

func (h *Handler) test(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "access granted with JWT"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	c, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	resp := meResponse{ID: c.Subject, Email: c.Email, Name: c.Name, Role: c.Role}
	if c.ExpiresAt != nil {
		resp.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, resp)
}
