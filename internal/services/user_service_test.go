package services

import (
	"context"
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/testutil"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetRecommendedUsers(t *testing.T) {
	store := testutil.NewStore()
	users := NewUserService(store)

	b := store.AddUser(models.User{Email: "b@example.com", IsOnboarded: true})
	a := store.AddUser(models.User{Email: "a@example.com", IsOnboarded: true})
	store.AddUser(models.User{Email: "c@example.com", IsOnboarded: false})
	u := store.AddUser(models.User{Email: "u@example.com", IsOnboarded: true, Friends: []primitive.ObjectID{b.ID}})

	recs, err := users.GetRecommendedUsers(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, a.ID, recs[0].ID)
}

func TestGetRecommendedUsersUnknownCaller(t *testing.T) {
	users := NewUserService(testutil.NewStore())

	_, err := users.GetRecommendedUsers(context.Background(), primitive.NewObjectID())
	assert.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestGetFriends(t *testing.T) {
	store := testutil.NewStore()
	users := NewUserService(store)

	b := store.AddUser(models.User{Email: "b@example.com", FullName: "Ben", ProfilePic: "b.png", NativeLanguage: "english"})
	u := store.AddUser(models.User{Email: "u@example.com", Friends: []primitive.ObjectID{b.ID}})
	lonely := store.AddUser(models.User{Email: "l@example.com"})

	friends, err := users.GetFriends(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.PublicUser{{
		ID:             b.ID,
		FullName:       "Ben",
		ProfilePic:     "b.png",
		NativeLanguage: "english",
	}}, friends)

	friends, err = users.GetFriends(context.Background(), lonely.ID)
	require.NoError(t, err)
	assert.NotNil(t, friends)
	assert.Empty(t, friends)
}
