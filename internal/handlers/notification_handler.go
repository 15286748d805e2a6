package handlers

import (
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GET /api/notifications
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	notifications, err := h.Service.GetUserNotifications(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}
	notifID, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	if err := h.Service.MarkNotificationAsRead(r.Context(), me.ID, notifID); err != nil {
		writeError(w, r, err, "mark notification as read")
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked as read")
}
