// Package seed fills a development database with onboarded demo members.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

var languages = []string{
	"english", "spanish", "french", "german", "japanese",
	"korean", "mandarin", "portuguese", "italian", "russian",
}

type userCreator interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

// Factory builds demo users with gofakeit.
type Factory struct {
	faker *gofakeit.Faker
	hash  string
}

// NewFactory returns a factory whose output is reproducible for a given seed.
func NewFactory(seed int64) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return &Factory{faker: gofakeit.New(seed), hash: string(hash)}, nil
}

// BuildUser returns an onboarded user whose native and learning languages differ.
func (f *Factory) BuildUser() *models.User {
	native := f.faker.RandomString(languages)
	learning := native
	for learning == native {
		learning = f.faker.RandomString(languages)
	}

	return &models.User{
		Email:            f.faker.Email(),
		FullName:         f.faker.Name(),
		HashedPassword:   f.hash,
		ProfilePic:       fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", f.faker.Number(1, 100)),
		Bio:              f.faker.Sentence(10),
		NativeLanguage:   native,
		LearningLanguage: learning,
		Location:         f.faker.City() + ", " + f.faker.Country(),
		IsOnboarded:      true,
	}
}

// Users creates n demo users, skipping generated emails that already exist.
func (f *Factory) Users(ctx context.Context, store userCreator, n int) ([]*models.User, error) {
	created := make([]*models.User, 0, n)
	for len(created) < n {
		user, err := store.CreateUser(ctx, f.BuildUser())
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to create demo user: %w", err)
		}
		created = append(created, user)
	}
	logrus.WithField("count", len(created)).Info("Seeded demo users")
	return created, nil
}
