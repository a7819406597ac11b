package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarpov/giftcircle/internal/api/middleware"
	"github.com/mkarpov/giftcircle/internal/api/request"
	"github.com/mkarpov/giftcircle/internal/api/response"
	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/model"
	"github.com/mkarpov/giftcircle/internal/services/admin"
)

// AdminHandler handles operator endpoints
type AdminHandler struct {
	admin  *admin.Service
	hub    *broadcast.Hub
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, hub *broadcast.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  adminService,
		hub:    hub,
		logger: logger,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLogin
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token, err := h.admin.Login(req.Login, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AdminLogin{Token: token})
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetAdminSession(r.Context())
	h.admin.Logout(sess.Token)
	response.NoContent(w)
}

// Events handles GET /api/v1/admin/events. Once the stream is up, the
// current overview, statistics, and operator log are replayed onto it.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetAdminSession(r.Context())

	token := sess.Token
	ctx := r.Context()
	broadcast.ServeSSE(w, r, h.hub, token, broadcast.AdminRoom, func() {
		if err := h.admin.ReplaySnapshot(ctx, token); err != nil {
			h.logger.Error("failed to replay admin snapshot",
				slog.String("error", err.Error()))
		}
	}, nil)
}

// CreateFirstTable handles POST /api/v1/admin/tables/first
func (h *AdminHandler) CreateFirstTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.admin.CreateFirstTable(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, broadcast.NewTableView(t))
}

// JoinTable handles POST /api/v1/admin/tables/{id}/join
func (h *AdminHandler) JoinTable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetAdminSession(r.Context())
	tableID := model.TableID(mux.Vars(r)["id"])

	view, history, err := h.admin.JoinTable(r.Context(), sess.Token, tableID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AdminTable{
		Table:       view,
		ChatHistory: history,
	})
}

// RemoveParticipant handles DELETE /api/v1/admin/tables/{id}/participants/{pid}
func (h *AdminHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tableID := model.TableID(vars["id"])
	pid := model.ParticipantID(vars["pid"])

	if err := h.admin.RemoveParticipant(r.Context(), tableID, pid); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GenerateReferral handles POST /api/v1/admin/tables/{id}/referrals
func (h *AdminHandler) GenerateReferral(w http.ResponseWriter, r *http.Request) {
	tableID := model.TableID(mux.Vars(r)["id"])

	var req request.AdminReferral
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.SponsorID == "" {
		WriteError(w, NewInvalidRequestError("sponsor_id is required"))
		return
	}

	ref, err := h.admin.GenerateReferral(r.Context(), tableID, req.SponsorID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ReferralFromModel(ref))
}

// Chat handles POST /api/v1/admin/tables/{id}/chat
func (h *AdminHandler) Chat(w http.ResponseWriter, r *http.Request) {
	tableID := model.TableID(mux.Vars(r)["id"])

	var req request.Chat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.admin.Chat(r.Context(), tableID, req.Text, req.AsTablePersona); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ConfirmGift handles POST /api/v1/admin/tables/{id}/gift/confirm
func (h *AdminHandler) ConfirmGift(w http.ResponseWriter, r *http.Request) {
	tableID := model.TableID(mux.Vars(r)["id"])

	var req request.ConfirmGift
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.SpiritID == "" {
		WriteError(w, NewInvalidRequestError("spirit_id is required"))
		return
	}

	if err := h.admin.ConfirmGift(r.Context(), tableID, req.SpiritID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
