package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService stores and serves friend request notifications.
type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification logs a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// FriendRequestReceived tells the recipient someone wants to be friends.
func (s *NotificationService) FriendRequestReceived(ctx context.Context, req *models.FriendRequest, sender *models.User) {
	id := req.ID
	s.bestEffort(s.CreateNotification(ctx, req.Recipient,
		models.NotificationFriendRequestReceived,
		"New friend request",
		fmt.Sprintf("%s sent you a friend request.", sender.FullName),
		&id,
	), req.Recipient)
}

// FriendRequestAccepted tells the sender their request went through.
func (s *NotificationService) FriendRequestAccepted(ctx context.Context, req *models.FriendRequest, recipient *models.User) {
	id := req.ID
	s.bestEffort(s.CreateNotification(ctx, req.Sender,
		models.NotificationFriendRequestAccepted,
		"Friend request accepted",
		fmt.Sprintf("%s accepted your friend request.", recipient.FullName),
		&id,
	), req.Sender)
}

func (s *NotificationService) bestEffort(err error, userID primitive.ObjectID) {
	if err == nil {
		return
	}
	metrics.NotificationFailures.Inc()
	logrus.WithError(err).Warnf("Failed to notify user %s", userID.Hex())
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead marks a notification of userID as read.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	err := s.repo.MarkAsRead(ctx, userID, notifID)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFound("Notification not found")
	}
	return err
}

func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	_, err := s.repo.DeleteExpiredNotifications(ctx)
	return err
}
