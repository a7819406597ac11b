package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mkarpov/giftcircle/internal/api/middleware"
	"github.com/mkarpov/giftcircle/internal/api/request"
	"github.com/mkarpov/giftcircle/internal/api/response"
	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/services/session"
)

// SessionHandler handles participant-facing endpoints
type SessionHandler struct {
	orch   *session.Orchestrator
	hub    *broadcast.Hub
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(orch *session.Orchestrator, hub *broadcast.Hub, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		orch:   orch,
		hub:    hub,
		logger: logger,
	}
}

// Login handles POST /api/v1/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	res, err := h.orch.Login(r.Context(), req.Name, req.ReferralCode)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LoginFromResult(res))
}

// Reconnect handles POST /api/v1/reconnect
func (h *SessionHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	var req request.Reconnect
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	res, err := h.orch.Reconnect(r.Context(), session.ReconnectRequest{
		Name:          req.Name,
		Role:          req.Role,
		TableID:       req.TableID,
		GiftSent:      req.GiftSent,
		GiftConfirmed: req.GiftConfirmed,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginFromResult(res))
}

// Events handles GET /api/v1/events. The stream is the participant's
// presence: when it closes without a replacement, the seat is vacated.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	token := sess.Token
	broadcast.ServeSSE(w, r, h.hub, token, broadcast.TableRoom(sess.TableID), nil, func() {
		// The request context is done by the time the stream closes.
		if err := h.orch.Disconnect(context.Background(), token); err != nil {
			h.logger.Debug("disconnect after stream close",
				slog.String("error", err.Error()))
		}
	})
}

// SendGift handles POST /api/v1/gift/send
func (h *SessionHandler) SendGift(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if err := h.orch.SendGift(r.Context(), sess.Token); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ConfirmGift handles POST /api/v1/gift/confirm
func (h *SessionHandler) ConfirmGift(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.ConfirmGift
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.SpiritID == "" {
		WriteError(w, NewInvalidRequestError("spirit_id is required"))
		return
	}

	if err := h.orch.ConfirmGift(r.Context(), sess.Token, req.SpiritID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GenerateReferral handles POST /api/v1/referrals
func (h *SessionHandler) GenerateReferral(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	ref, err := h.orch.GenerateReferral(r.Context(), sess.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ReferralFromModel(ref))
}

// Chat handles POST /api/v1/chat
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.Chat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.orch.Chat(r.Context(), sess.Token, req.Text); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Logout handles POST /api/v1/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	if err := h.orch.Disconnect(r.Context(), sess.Token); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
