package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"medtrack/internal/auth"
	"medtrack/internal/errs"
)

type MeHandler struct {
	Users *auth.Users
	Log   *zap.Logger
}

type meResp struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Me reports the authenticated user. Users known only to the external auth
// platform have no local row and get just their id back.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	resp := meResp{UserID: uid.String()}

	u, err := h.Users.Get(r.Context(), uid)
	switch {
	case err == nil:
		resp.Email = u.Email
		resp.CreatedAt = &u.CreatedAt
	case !errors.Is(err, errs.ErrNotFound):
		writeStoreError(w, r, h.Log, err, "load user")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
