package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOnboardingProfileMissingFields(t *testing.T) {
	assert.Empty(t, OnboardingProfile{
		FullName: "Ana", Bio: "hi", NativeLanguage: "spanish", LearningLanguage: "english", Location: "Madrid",
	}.MissingFields())

	assert.Equal(t,
		[]string{"fullName", "bio", "nativeLanguage", "learningLanguage", "location"},
		OnboardingProfile{ProfilePic: "x.png"}.MissingFields(),
	)

	assert.Equal(t, []string{"bio", "location"}, OnboardingProfile{
		FullName: "Ana", NativeLanguage: "spanish", LearningLanguage: "english",
	}.MissingFields())
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, primitive.NewObjectID()))
}

func TestHasFriendAndPublic(t *testing.T) {
	friend := primitive.NewObjectID()
	u := User{ID: primitive.NewObjectID(), FullName: "Ana", Email: "ana@x.io", Friends: []primitive.ObjectID{friend}}

	assert.True(t, u.HasFriend(friend))
	assert.False(t, u.HasFriend(primitive.NewObjectID()))

	// Callable on values returned from functions and map lookups.
	byID := map[primitive.ObjectID]User{u.ID: u}
	assert.True(t, byID[u.ID].HasFriend(friend))
	assert.True(t, func() User { return u }().HasFriend(friend))

	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, "Ana", pub.FullName)
}
