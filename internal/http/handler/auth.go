package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"medtrack/internal/auth"
	"medtrack/internal/errs"
)

// bcrypt ignores everything after 72 bytes.
const maxPasswordBytes = 72

type AuthHandler struct {
	Users *auth.Users
	JWT   *auth.JWT
	Log   *zap.Logger
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var problems []string
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		problems = append(problems, "a valid email is required")
	}
	if len(req.Password) < auth.MinPasswordLen {
		problems = append(problems, "password must be at least 8 characters")
	}
	if len(req.Password) > maxPasswordBytes {
		problems = append(problems, "password must be at most 72 bytes")
	}
	if len(problems) > 0 {
		writeValidation(w, problems)
		return
	}

	u, err := h.Users.Create(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "email already used")
			return
		}
		writeStoreError(w, r, h.Log, err, "register")
		return
	}

	h.issue(w, r, u, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeStoreError(w, r, h.Log, err, "login")
		return
	}

	h.issue(w, r, u, http.StatusOK)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, u *auth.User, status int) {
	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		writeStoreError(w, r, h.Log, err, "sign token")
		return
	}
	writeJSON(w, status, tokenResp{Token: token, UserID: u.ID.String()})
}
