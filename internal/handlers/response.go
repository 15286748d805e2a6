package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError answers with the status and message of a classified error and
// hides everything else behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if apiErr, ok := apierror.As(err); ok {
		logger.Log.WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFromContext(r.Context()),
			"code":       apiErr.Code,
		}).Warnf("Failed to %s: %s", action, apiErr.Message)
		writeJSON(w, apiErr.Status, apiErr)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"error":      err,
	}).Errorf("Failed to %s", action)
	writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized - No token provided")
		return nil
	}
	return user
}

// pathID parses the {id} route variable, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		logger.Log.Warnf("Invalid %s ID %q: %v", what, mux.Vars(r)["id"], err)
		writeMessage(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
