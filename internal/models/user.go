package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a language-exchange member.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email            string               `bson:"email" json:"email"`
	FullName         string               `bson:"fullName" json:"fullName"`
	HashedPassword   string               `bson:"password" json:"-"`
	ProfilePic       string               `bson:"profilePic" json:"profilePic"`
	Bio              string               `bson:"bio" json:"bio"`
	NativeLanguage   string               `bson:"nativeLanguage" json:"nativeLanguage"`
	LearningLanguage string               `bson:"learningLanguage" json:"learningLanguage"`
	Location         string               `bson:"location" json:"location"`
	IsOnboarded      bool                 `bson:"isOnboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends" json:"friends"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasFriend reports whether id is in the user's friend set.
func (u User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PublicUser is the profile shown to other users.
type PublicUser struct {
	ID               primitive.ObjectID `json:"_id"`
	FullName         string             `json:"fullName"`
	ProfilePic       string             `json:"profilePic"`
	NativeLanguage   string             `json:"nativeLanguage,omitempty"`
	LearningLanguage string             `json:"learningLanguage,omitempty"`
}

// Public strips everything but the public profile fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}

// OnboardingProfile holds the fields a user may set while onboarding.
// ProfilePic is optional; the rest are required.
type OnboardingProfile struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
	ProfilePic       string `json:"profilePic,omitempty"`
}

// MissingFields lists the required fields that are empty, in form order.
func (p OnboardingProfile) MissingFields() []string {
	var missing []string
	if p.FullName == "" {
		missing = append(missing, "fullName")
	}
	if p.Bio == "" {
		missing = append(missing, "bio")
	}
	if p.NativeLanguage == "" {
		missing = append(missing, "nativeLanguage")
	}
	if p.LearningLanguage == "" {
		missing = append(missing, "learningLanguage")
	}
	if p.Location == "" {
		missing = append(missing, "location")
	}
	return missing
}
