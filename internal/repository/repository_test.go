package repository

import (
	"context"
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id and empty friend set", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := repo.CreateUser(context.Background(), &models.User{Email: "ana@x.io", FullName: "Ana"})
		require.NoError(mt, err)
		assert.False(mt, user.ID.IsZero())
		assert.NotNil(mt, user.Friends)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.CreateUser(context.Background(), &models.User{Email: "ana@x.io"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("get by id decodes document", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		friend := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ana@x.io"},
			{Key: "fullName", Value: "Ana"},
			{Key: "isOnboarded", Value: true},
			{Key: "friends", Value: bson.A{friend}},
		}))

		user, err := repo.GetUserByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, "Ana", user.FullName)
		assert.True(mt, user.IsOnboarded)
		assert.Equal(mt, []primitive.ObjectID{friend}, user.Friends)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetUserByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("users by ids with empty input skips the query", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		users, err := repo.GetUsersByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, users)
	})
}

func TestFriendRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create sets pair key and pending status", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		req, err := repo.CreateRequest(context.Background(), &models.FriendRequest{Sender: a, Recipient: b})
		require.NoError(mt, err)
		assert.Equal(mt, models.FriendRequestPending, req.Status)
		assert.Equal(mt, models.PairKey(b, a), req.Pair)
	})

	mt.Run("create duplicate pair", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.CreateRequest(context.Background(), &models.FriendRequest{
			Sender: primitive.NewObjectID(), Recipient: primitive.NewObjectID(),
		})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find between returns nil when absent", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.friend_requests", mtest.FirstBatch))

		req, err := repo.FindBetween(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, req)
	})

	mt.Run("list by recipient decodes", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		recipient := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.friend_requests", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "recipient", Value: recipient}, {Key: "status", Value: "pending"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "recipient", Value: recipient}, {Key: "status", Value: "pending"}},
		))

		reqs, err := repo.ListByRecipient(context.Background(), recipient, models.FriendRequestPending)
		require.NoError(mt, err)
		assert.Len(mt, reqs, 2)
	})

	mt.Run("accept updates status and both friend sets", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := repo.AcceptRequest(context.Background(), &models.FriendRequest{
			ID: primitive.NewObjectID(), Sender: primitive.NewObjectID(), Recipient: primitive.NewObjectID(),
		})
		assert.NoError(mt, err)
	})

	mt.Run("accept of a request that is no longer pending", func(mt *mtest.T) {
		repo := NewFriendRepository(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.AcceptRequest(context.Background(), &models.FriendRequest{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, ErrNotPending)
	})
}

func TestNotificationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mark read of someone else's notification", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.MarkAsRead(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("create sets expiry", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n := &models.Notification{UserID: primitive.NewObjectID(), Type: models.NotificationFriendRequestReceived}
		require.NoError(mt, repo.CreateNotification(context.Background(), n))
		assert.Equal(mt, notificationTTL, n.ExpiresAt.Sub(n.CreatedAt))
	})
}
