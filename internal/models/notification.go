package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationFriendRequestReceived = "friend_request_received"
	NotificationFriendRequestAccepted = "friend_request_accepted"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Read      bool                `bson:"read" json:"read"`
	TargetID  *primitive.ObjectID `bson:"targetId,omitempty" json:"targetId,omitempty"` // the friend request
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time           `bson:"expiresAt" json:"expiresAt"` // removed by the cleanup job after this
}
