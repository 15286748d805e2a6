package seed

import (
	"context"
	"testing"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBuildUserIsOnboarded(t *testing.T) {
	f, err := NewFactory(42)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		u := f.BuildUser()
		assert.True(t, u.IsOnboarded)
		assert.NotEqual(t, u.NativeLanguage, u.LearningLanguage)
		profile := models.OnboardingProfile{
			FullName:         u.FullName,
			Bio:              u.Bio,
			NativeLanguage:   u.NativeLanguage,
			LearningLanguage: u.LearningLanguage,
			Location:         u.Location,
		}
		assert.Empty(t, profile.MissingFields())
	}
}

func TestUsersPersistsDemoAccounts(t *testing.T) {
	f, err := NewFactory(7)
	require.NoError(t, err)
	store := testutil.NewStore()

	users, err := f.Users(context.Background(), store, 5)
	require.NoError(t, err)
	require.Len(t, users, 5)

	stored, err := store.GetUserByEmail(context.Background(), users[0].Email)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte(DemoPassword)))
}
