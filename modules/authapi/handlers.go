package authapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/httpx"
	"github.com/strikerhq/striker-auth/identity"
	"github.com/strikerhq/striker-auth/pkg/logger"
	"github.com/strikerhq/striker-auth/pkg/tokens"
	"github.com/strikerhq/striker-auth/sessions"
)

type handlers struct {
	svc Services
}

type socialLoginRequest struct {
	Provider    string `json:"provider"`
	SubjectID   string `json:"subjectId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

type loginResponse struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	PictureURL  string    `json:"pictureUrl,omitempty"`
	Provider    string    `json:"provider"`
	Role        string    `json:"role"`
	IsGuest     bool      `json:"isGuest,omitempty"`
	SessionID   string    `json:"sessionId,omitempty"`
	AccessToken string    `json:"accessToken"`
}

func (h *handlers) socialLogin(w http.ResponseWriter, r *http.Request) {
	var req socialLoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.svc.Resolver.Resolve(r.Context(), identity.Assertion{
		Provider:    identity.Provider(strings.ToUpper(strings.TrimSpace(req.Provider))),
		SubjectID:   req.SubjectID,
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		PictureURL:  req.PictureURL,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	token, err := h.svc.Issuer.Issue(user.ID, tokens.Meta{
		Provider: strings.ToUpper(strings.TrimSpace(req.Provider)),
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		h.svc.Logger.ErrorContext(r.Context(), "token minting failed",
			logger.Component("authapi"), logger.UserID(user.ID.String()), logger.Error(err))
		httpx.Error(w, err)
		return
	}

	resp := loginResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PictureURL:  user.PictureURL,
		Provider:    strings.ToUpper(strings.TrimSpace(req.Provider)),
		Role:        string(user.Role),
		AccessToken: token,
	}
	resp.SessionID = h.openSession(r, user.ID, sessions.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude})

	httpx.JSON(w, http.StatusOK, "login_ok", resp)
}

func (h *handlers) guestLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Resolver.ResolveGuest(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	token, err := h.svc.Issuer.Issue(user.ID, tokens.Meta{
		Provider: string(identity.ProviderGuest),
		Username: user.Username,
		IsGuest:  true,
	})
	if err != nil {
		h.svc.Logger.ErrorContext(r.Context(), "token minting failed",
			logger.Component("authapi"), logger.UserID(user.ID.String()), logger.Error(err))
		httpx.Error(w, err)
		return
	}

	resp := loginResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Provider:    string(identity.ProviderGuest),
		Role:        string(user.Role),
		IsGuest:     true,
		AccessToken: token,
	}
	resp.SessionID = h.openSession(r, user.ID, sessions.Coordinates{})

	httpx.JSON(w, http.StatusOK, "login_ok", resp)
}

// openSession records the login event. The session log is bookkeeping, not a
// precondition for the token, so failures are logged and the login succeeds.
func (h *handlers) openSession(r *http.Request, userID uuid.UUID, coords sessions.Coordinates) string {
	session, err := h.svc.Sessions.Open(r.Context(), userID, coords)
	if err != nil {
		h.svc.Logger.ErrorContext(r.Context(), "failed to record login session",
			logger.Component("authapi"), logger.UserID(userID.String()), logger.Error(err))
		return ""
	}
	return session.ID.String()
}

type userResponse struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	PictureURL  string    `json:"pictureUrl,omitempty"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
}

func toUserResponse(u *identity.User) userResponse {
	return userResponse{
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		PictureURL:  u.PictureURL,
		Role:        string(u.Role),
		Active:      u.Active,
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, httpx.ErrMalformedBody
	}
	return id, nil
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.svc.Profiles.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "user", toUserResponse(user))
}

type updateUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req updateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.svc.Profiles.Update(r.Context(), id, identity.ProfileUpdate{
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		PictureURL:  req.PictureURL,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "user_updated", toUserResponse(user))
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Profiles.Deactivate(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "user_deactivated", nil)
}

type sessionResponse struct {
	SessionID   uuid.UUID `json:"sessionId"`
	UserID      uuid.UUID `json:"userId"`
	LoginAt     string    `json:"loginAt"`
	LoggedOutAt string    `json:"loggedOutAt,omitempty"`
	Active      bool      `json:"active"`
	Playing     bool      `json:"playing"`
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	list, err := h.svc.Sessions.ForUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		item := sessionResponse{
			SessionID: s.ID,
			UserID:    s.UserID,
			LoginAt:   s.LoginAt.UTC().Format(time.RFC3339),
			Active:    s.Active,
			Playing:   s.Playing,
		}
		if s.LoggedOutAt != nil {
			item.LoggedOutAt = s.LoggedOutAt.UTC().Format(time.RFC3339)
		}
		resp = append(resp, item)
	}
	httpx.JSON(w, http.StatusOK, "sessions", resp)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.svc.Sessions.Close(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "logged_out", nil)
}
