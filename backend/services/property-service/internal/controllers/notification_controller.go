package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/services"
	"github.com/poofware/mono-repo/backend/shared/go-middleware"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type NotificationController struct {
	notifications repositories.NotificationRepository
	service       services.NotificationService
}

func NewNotificationController(repos *repositories.Repositories, notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notifications: repos.Notifications, service: notificationService}
}

// GET /api/v1/notifications?unread_only=true&type=
func (c *NotificationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.NotificationQueryOptions{
		QueryOptions: q.options(),
		UnreadOnly:   q.bool("unread_only"),
		Type:         enumPtr(q, "type", models.ParseNotificationType),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	ns, err := c.notifications.FindByOwnerWithSearch(r.Context(), userID, opts)
	respondList(w, ns, opts.QueryOptions, err)
}

// POST /api/v1/notifications
//
// A request without user_id notifies the caller. Only admins may notify
// other users.
func (c *NotificationController) SendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req models.NotificationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	switch req.UserID {
	case uuid.Nil:
		req.UserID = userID
	case userID:
	default:
		role, _ := r.Context().Value(middleware.ContextKeyRole).(string)
		if models.UserRole(role) != models.UserRoleAdmin {
			utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden,
				"Cannot notify another user", nil)
			return
		}
	}
	ns, err := c.service.Notify(r.Context(), req)
	respond(w, http.StatusCreated, nonNil(ns), err)
}

// GET /api/v1/notifications/unread-count
func (c *NotificationController) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	n, err := c.notifications.CountUnread(r.Context(), userID)
	respond(w, http.StatusOK, map[string]int{"unread": n}, err)
}

// POST /api/v1/notifications/read-all
func (c *NotificationController) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	n, err := c.notifications.MarkAllRead(r.Context(), userID)
	respond(w, http.StatusOK, map[string]int{"updated": n}, err)
}

// POST /api/v1/notifications/{id}/read
func (c *NotificationController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	n, err := c.notifications.MarkRead(r.Context(), userID, id)
	respond(w, http.StatusOK, n, err)
}

// DELETE /api/v1/notifications/{id}
func (c *NotificationController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	if err := c.notifications.Delete(r.Context(), userID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
