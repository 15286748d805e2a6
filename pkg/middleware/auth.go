package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dias221467/Language_Exchange/internal/models"
	jwtutil "github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CookieName is the session cookie set on signup and login.
const CookieName = "jwt"

type contextKey string

const (
	claimsKey    contextKey = "claims"
	userKey      contextKey = "user"
	RequestIDKey contextKey = "request_id"
)

// UserLookup loads the user a token belongs to.
type UserLookup interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid session token and puts the
// token claims and the user document on the request context.
func AuthMiddleware(secret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - No token provided")
				return
			}

			claims, err := jwtutil.ValidateToken(tokenString, secret)
			if err != nil {
				logger.Log.WithError(err).Debug("Rejected session token")
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil || user == nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized - User not found")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest prefers the session cookie and falls back to a bearer token.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// GetUserFromContext returns the token claims stored by AuthMiddleware.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(claimsKey).(*jwtutil.Claims)
	return claims
}

// UserFromContext returns the authenticated user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a copy of ctx carrying user, as AuthMiddleware would.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, claimsKey, &jwtutil.Claims{UserID: user.ID.Hex()})
	return context.WithValue(ctx, userKey, user)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
