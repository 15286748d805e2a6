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

// UserRepository handles database operations on the user directory.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user. A taken email yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Friends == nil {
		// $addToSet fails on a null field.
		user.Friends = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err = translate(err); err != ErrNotFound {
			logrus.WithError(err).Warn("Failed to find user by email")
			return nil, fmt.Errorf("failed to find user by email: %w", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err = translate(err); err != ErrNotFound {
			logrus.WithFields(logrus.Fields{
				"userID": id.Hex(),
				"error":  err,
			}).Warn("Failed to find user by ID")
			return nil, fmt.Errorf("failed to find user by id: %w", err)
		}
		return nil, err
	}
	return &user, nil
}

// CompleteOnboarding merges the profile into the user and marks them
// onboarded, returning the updated document.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, id primitive.ObjectID, profile models.OnboardingProfile) (*models.User, error) {
	set := bson.M{
		"fullName":         profile.FullName,
		"bio":              profile.Bio,
		"nativeLanguage":   profile.NativeLanguage,
		"learningLanguage": profile.LearningLanguage,
		"location":         profile.Location,
		"isOnboarded":      true,
		"updatedAt":        time.Now(),
	}
	if profile.ProfilePic != "" {
		set["profilePic"] = profile.ProfilePic
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err = translate(err); err != ErrNotFound {
			logrus.WithFields(logrus.Fields{
				"userID": id.Hex(),
				"error":  err,
			}).Error("Failed to onboard user")
			return nil, fmt.Errorf("failed to onboard user: %w", err)
		}
		return nil, err
	}

	logrus.WithField("userID", id.Hex()).Info("User onboarded successfully")
	return &user, nil
}

// GetRecommendedUsers returns every onboarded user except userID and the
// ids in exclude.
func (r *UserRepository) GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error) {
	if exclude == nil {
		// $nin rejects null.
		exclude = []primitive.ObjectID{}
	}
	filter := bson.M{
		"$and": []bson.M{
			{"_id": bson.M{"$ne": userID}},
			{"_id": bson.M{"$nin": exclude}},
			{"isOnboarded": true},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode recommended users: %w", err)
	}
	return users, nil
}

// GetUsersByIDs fetches the users whose ids are listed.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// AddFriend puts friendID into userID's friend set.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": friendID}}, // avoid duplicates
	)
	if err != nil {
		return fmt.Errorf("failed to add friend: %w", err)
	}
	return nil
}
