package handlers

import (
	"errors"
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
)

// FriendHandler manages HTTP endpoints related to friend requests.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler handles POST /api/users/friend-request/{id}.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}
	recipientID, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	request, err := h.Service.SendFriendRequest(r.Context(), me.ID, recipientID)
	if errors.Is(err, services.ErrRequestExists) {
		writeMessage(w, http.StatusOK, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err, "send friend request")
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", me.ID.Hex(), recipientID.Hex())
	writeJSON(w, http.StatusCreated, request)
}

// AcceptFriendRequestHandler handles PUT /api/users/friend-request/{id}/accept.
func (h *FriendHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}
	requestID, ok := pathID(w, r, "request")
	if !ok {
		return
	}

	if err := h.Service.AcceptFriendRequest(r.Context(), requestID, me.ID); err != nil {
		writeError(w, r, err, "accept friend request")
		return
	}

	logger.Log.Infof("User %s accepted friend request %s", me.ID.Hex(), requestID.Hex())
	writeMessage(w, http.StatusOK, "friend request accepted")
}

// GetFriendRequestsHandler lists incoming pending requests and the caller's
// accepted outgoing ones.
func (h *FriendHandler) GetFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	incoming, err := h.Service.GetIncomingRequests(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get incoming friend requests")
		return
	}
	accepted, err := h.Service.GetAcceptedSentRequests(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get accepted friend requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"incomingReqs": incoming,
		"acceptedReqs": accepted,
	})
}

// GetOutgoingRequestsHandler handles GET /api/users/outgoing-friend-requests.
func (h *FriendHandler) GetOutgoingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	me := currentUser(w, r)
	if me == nil {
		return
	}

	outgoing, err := h.Service.GetOutgoingRequests(r.Context(), me.ID)
	if err != nil {
		writeError(w, r, err, "get outgoing friend requests")
		return
	}
	writeJSON(w, http.StatusOK, outgoing)
}
