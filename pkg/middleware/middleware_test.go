package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	jwtutil "github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "middleware-test-secret"

type lookup map[primitive.ObjectID]*models.User

func (l lookup) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := l[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	claims := GetUserFromContext(r.Context())
	if user == nil || claims == nil || claims.UserID != user.ID.Hex() {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(user.FullName))
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), FullName: "Ana"}
	handler := AuthMiddleware(secret, lookup{user.ID: user})(http.HandlerFunc(whoAmI))

	valid, err := jwtutil.GenerateToken(user.ID.Hex(), secret, time.Hour)
	require.NoError(t, err)
	ghost, err := jwtutil.GenerateToken(primitive.NewObjectID().Hex(), secret, time.Hour)
	require.NoError(t, err)
	notAnID, err := jwtutil.GenerateToken("not-an-object-id", secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		status  int
		message string
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		}, http.StatusUnauthorized, "Unauthorized - Invalid token"},
		{"malformed user id", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: notAnID})
		}, http.StatusUnauthorized, "Unauthorized - Invalid token"},
		{"unknown user", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: ghost})
		}, http.StatusUnauthorized, "Unauthorized - User not found"},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: valid})
		}, http.StatusOK, ""},
		{"bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+valid)
		}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, message(t, rec))
			} else {
				assert.Equal(t, "Ana", rec.Body.String())
			}
		})
	}
}

func TestLoggingMiddlewareRecoversAndCounts(t *testing.T) {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.HandleFunc("/boom/{id}", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	before := promtest.ToFloat64(metrics.HTTPRequests.WithLabelValues("/boom/{id}", http.MethodGet, "500"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", message(t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.HTTPRequests.WithLabelValues("/boom/{id}", http.MethodGet, "500")))
}

func TestLoggingMiddlewareKeepsStatusAfterLatePanic(t *testing.T) {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.HandleFunc("/late/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late boom")
	})

	before := promtest.ToFloat64(metrics.HTTPRequests.WithLabelValues("/late/{id}", http.MethodGet, "202"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/late/1", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.HTTPRequests.WithLabelValues("/late/{id}", http.MethodGet, "202")))
}

func TestLoggingMiddlewareKeepsRequestID(t *testing.T) {
	var seen string
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	handler := RateLimit(rdb, "login", 2, time.Minute, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))

	ttl := mr.TTL("rl:login:10.0.0.1")
	assert.Equal(t, time.Minute, ttl)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
}

func TestRateLimitForwardedFor(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		want       []int
	}{
		{"untrusted proxy keys on peer", false, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}},
		{"trusted proxy keys on forwarded client", true, []int{http.StatusNoContent, http.StatusNoContent, http.StatusNoContent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { rdb.Close() })

			handler := RateLimit(rdb, "login", 1, time.Minute, tt.trustProxy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			for i, forwarded := range []string{"1.1.1.1", "2.2.2.2, 10.0.0.9", "3.3.3.3"} {
				req := httptest.NewRequest(http.MethodPost, "/", nil)
				req.RemoteAddr = "10.0.0.9:5555"
				req.Header.Set("X-Forwarded-For", forwarded)
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)
				assert.Equal(t, tt.want[i], rec.Code, "request %d", i)
			}
		})
	}
}

func TestCheckRateLimitRestoresMissingExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	// Counter left behind without a TTL.
	require.NoError(t, mr.Set("rl:login:5.5.5.5", "7"))
	assert.Equal(t, time.Duration(0), mr.TTL("rl:login:5.5.5.5"))

	allowed, err := CheckRateLimit(context.Background(), rdb, "login", "5.5.5.5", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl:login:5.5.5.5"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(context.Background(), rdb, "login", "5.5.5.5", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	allowed, err := CheckRateLimit(context.Background(), rdb, "signup", "1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, allowed)

	allowed, err = CheckRateLimit(context.Background(), nil, "signup", "1.2.3.4", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}
