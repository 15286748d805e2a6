package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService serves the user directory: lookups, recommendations, friends.
type UserService struct {
	users UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetRecommendedUsers returns every onboarded user that is neither the
// caller nor one of the caller's friends.
func (s *UserService) GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	me, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetRecommendedUsers(ctx, me.ID, me.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommended users: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"count":  len(users),
	}).Debug("Recommended users fetched")
	return users, nil
}

// GetFriends returns the public profiles of the caller's friend set.
func (s *UserService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	me, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(me.Friends) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, me.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	friends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		friends = append(friends, users[i].Public())
	}
	return friends, nil
}
