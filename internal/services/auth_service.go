package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"regexp"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/chat"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/pkg/apierror"
	jwtutil "github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupInput is the body of POST /api/auth/signup.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// AuthService signs users up, logs them in and completes onboarding.
type AuthService struct {
	users       UserStore
	chat        ChatSyncer
	secret      string
	tokenExpiry time.Duration
}

func NewAuthService(users UserStore, chat ChatSyncer, secret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		chat:        chat,
		secret:      secret,
		tokenExpiry: tokenExpiry,
	}
}

// TokenExpiry is the lifetime of issued session tokens.
func (s *AuthService) TokenExpiry() time.Duration {
	return s.tokenExpiry
}

// Signup validates the input, creates the user with a random avatar and
// returns it with a fresh session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, "", apierror.Validation("All fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", apierror.Validation("Password must contain atleast 6 character")
	}
	if !emailRegex.MatchString(in.Email) {
		logrus.WithField("email", in.Email).Warn("Invalid email format during signup")
		return nil, "", apierror.Validation("Invalid email format")
	}

	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, "", apierror.Conflict("User with this email already exists, please use a different email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &models.User{
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: string(hashed),
		ProfilePic:     randomAvatar(),
		Friends:        []primitive.ObjectID{},
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with another signup for the same email.
		return nil, "", apierror.Conflict("User with this email already exists, please use a different email")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.chat.Schedule(user.ID.Hex(), user.FullName, user.ProfilePic)

	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.secret, s.tokenExpiry)
	if err != nil {
		return nil, "", err
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User signed up")
	return user, token, nil
}

// Login checks the credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apierror.Validation("All fields are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logrus.WithField("email", email).Warn("Login with unknown email")
		return nil, "", apierror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, "", apierror.Unauthorized("Invalid email or password")
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.secret, s.tokenExpiry)
	if err != nil {
		return nil, "", err
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, token, nil
}

// Onboard completes the profile of userID.
func (s *AuthService) Onboard(ctx context.Context, userID primitive.ObjectID, profile models.OnboardingProfile) (*models.User, error) {
	if missing := profile.MissingFields(); len(missing) > 0 {
		return nil, apierror.MissingFields("All fields are required", missing)
	}

	user, err := s.users.CompleteOnboarding(ctx, userID, profile)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to onboard user: %w", err)
	}

	s.chat.Schedule(user.ID.Hex(), user.FullName, user.ProfilePic)
	return user, nil
}

// ChatToken issues a chat provider token for userID.
func (s *AuthService) ChatToken(userID primitive.ObjectID) (string, error) {
	token, err := s.chat.Token(userID.Hex())
	if errors.Is(err, chat.ErrDisabled) {
		return "", apierror.New("CHAT_DISABLED", "Chat is not available", http.StatusServiceUnavailable)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create chat token: %w", err)
	}
	return token, nil
}

func randomAvatar() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.IntN(100)+1)
}
