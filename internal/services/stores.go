package services

import (
	"context"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the user directory, implemented by repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	CompleteOnboarding(ctx context.Context, id primitive.ObjectID, profile models.OnboardingProfile) (*models.User, error)
	GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
}

// FriendStore is the relationship ledger, implemented by repository.FriendRepository.
type FriendStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	ListByRecipient(ctx context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error)
	ListBySender(ctx context.Context, userID primitive.ObjectID, status models.FriendRequestStatus) ([]models.FriendRequest, error)
	ListAccepted(ctx context.Context, after primitive.ObjectID, limit int64) ([]models.FriendRequest, error)
	AcceptRequest(ctx context.Context, req *models.FriendRequest) error
}

// NotificationStore is implemented by repository.NotificationRepository.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) (int64, error)
}

// ChatSyncer is implemented by chat.Syncer.
type ChatSyncer interface {
	Schedule(id, name, image string)
	Token(userID string) (string, error)
}
