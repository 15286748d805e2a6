package handlers

import (
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/services"
)

// UserHandler serves the user directory.
type UserHandler struct {
	Service *services.UserService
}

// NewUserHandler initializes a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

// GetRecommendedUsersHandler handles GET /api/users.
func (h *UserHandler) GetRecommendedUsersHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	users, err := h.Service.GetRecommendedUsers(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get recommended users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetFriendsHandler handles GET /api/users/friends.
func (h *UserHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	friends, err := h.Service.GetFriends(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get friends")
		return
	}
	writeJSON(w, http.StatusOK, friends)
}
