package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRepository handles the friend request ledger.
type FriendRepository struct {
	collection   *mongo.Collection
	users        *mongo.Collection
	transactions bool
}

// NewFriendRepository creates a FriendRepository. With transactions set,
// accepting a request runs in a multi-document transaction, which needs a
// replica set.
func NewFriendRepository(db *mongo.Database, transactions bool) *FriendRepository {
	return &FriendRepository{
		collection:   db.Collection("friend_requests"),
		users:        db.Collection("users"),
		transactions: transactions,
	}
}

// CreateRequest inserts a pending request. If a request for the same pair
// already exists the unique pair index rejects it with ErrDuplicate.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.Status = models.FriendRequestPending
	req.Pair = models.PairKey(req.Sender, req.Recipient)

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to send friend request: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// FindBetween returns the request between a and b in either direction, or
// nil if there is none.
func (r *FriendRepository) FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender": a, "recipient": b},
			{"sender": b, "recipient": a},
		},
	}

	var req models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing request: %w", err)
	}
	return &req, nil
}

// GetRequestByID fetches a request, ErrNotFound if absent.
func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

// ListByRecipient returns the requests addressed to userID with the given status.
func (r *FriendRepository) ListByRecipient(ctx context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error) {
	return r.find(ctx, bson.M{"recipient": userID, "status": status})
}

// ListBySender returns the requests sent by userID with the given status.
func (r *FriendRepository) ListBySender(ctx context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error) {
	return r.find(ctx, bson.M{"sender": userID, "status": status})
}

// ListAccepted pages through accepted requests in _id order, starting after
// the given id (use primitive.NilObjectID for the first page).
func (r *FriendRepository) ListAccepted(ctx context.Context, after primitive.ObjectID, limit int64) ([]models.FriendRequest, error) {
	filter := bson.M{"status": models.FriendRequestAccepted}
	if !after.IsZero() {
		filter["_id"] = bson.M{"$gt": after}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

func (r *FriendRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friend requests: %w", err)
	}
	return requests, nil
}

// AcceptRequest flips a pending request to accepted and adds each party to
// the other's friend set. Returns ErrNotPending if the request was no longer
// pending when the update ran.
func (r *FriendRepository) AcceptRequest(ctx context.Context, req *models.FriendRequest) error {
	if !r.transactions {
		return r.accept(ctx, req)
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.accept(sc, req)
	})
	return err
}

func (r *FriendRepository) accept(ctx context.Context, req *models.FriendRequest) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": req.ID, "status": models.FriendRequestPending},
		bson.M{"$set": bson.M{"status": models.FriendRequestAccepted, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}

	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": req.Sender},
		bson.M{"$addToSet": bson.M{"friends": req.Recipient}},
	); err != nil {
		return fmt.Errorf("failed to add friend to sender: %w", err)
	}
	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": req.Recipient},
		bson.M{"$addToSet": bson.M{"friends": req.Sender}},
	); err != nil {
		return fmt.Errorf("failed to add friend to recipient: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"requestID":    req.ID.Hex(),
		"transactions": r.transactions,
	}).Info("Friend request accepted")
	return nil
}
