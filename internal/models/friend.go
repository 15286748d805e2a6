package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is one entry of the relationship ledger.
type FriendRequest struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Sender    primitive.ObjectID  `bson:"sender" json:"sender"`
	Recipient primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Status    FriendRequestStatus `bson:"status" json:"status"`
	// Pair is the same for both directions of a pair of users and carries a
	// unique index.
	Pair      string    `bson:"pair" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PairKey returns the order-independent key for users a and b.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// IncomingRequest is a pending request expanded with the sender's profile.
type IncomingRequest struct {
	ID        primitive.ObjectID  `json:"_id"`
	Sender    PublicUser          `json:"sender"`
	Recipient primitive.ObjectID  `json:"recipient"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// OutgoingRequest is a request expanded with the recipient's profile.
type OutgoingRequest struct {
	ID        primitive.ObjectID  `json:"_id"`
	Sender    primitive.ObjectID  `json:"sender"`
	Recipient PublicUser          `json:"recipient"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}
